// Package all registers every built-in storage backend with the storage
// factory. Import it for side effects:
//
//	import _ "orderetl/internal/storage/all"
//
// Kinds: sqlite, postgres, mssql (alias sqlserver), mysql, clickhouse.
package all

import (
	_ "orderetl/internal/storage/clickhouse"
	_ "orderetl/internal/storage/mssql"
	_ "orderetl/internal/storage/mysql"
	_ "orderetl/internal/storage/postgres"
	_ "orderetl/internal/storage/sqlite"
)
