package logging

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "****"

var (
	// user:secret@tcp(host)/db as used by go-sql-driver/mysql.
	mysqlCreds = regexp.MustCompile(`^([^:@/]+):([^@]*)@`)
	// password=secret in key/value DSNs (libpq, sqlserver ADO style).
	kvPassword = regexp.MustCompile(`(?i)((?:password|pwd)\s*=\s*)([^;\s&]+)`)
)

// MaskDSN hides the password of a connection string so it can be logged.
func MaskDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return ""
	}
	if strings.Contains(dsn, "://") {
		if u, err := url.Parse(dsn); err == nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), redacted)
			}
			q := u.Query()
			for k := range q {
				if isSecretKey(k) {
					q.Set(k, redacted)
				}
			}
			u.RawQuery = q.Encode()
			return strings.Replace(u.String(), url.QueryEscape(redacted), redacted, -1)
		}
	}
	if m := mysqlCreds.FindStringSubmatch(dsn); m != nil {
		dsn = m[1] + ":" + redacted + "@" + dsn[len(m[0]):]
	}
	return kvPassword.ReplaceAllString(dsn, "${1}"+redacted)
}

func isSecretKey(k string) bool {
	k = strings.ToLower(k)
	return strings.Contains(k, "password") || k == "pwd" || strings.Contains(k, "secret") || strings.Contains(k, "token")
}
