package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderetl/internal/analytics"
	"orderetl/internal/pipeline"
)

const (
	defaultLimit = 100
	maxLimit     = 10000
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: msg})
}

// snapshot loads (or reuses) the snapshot; on failure it aborts with 503.
func (s *Server) snapshot(c *gin.Context) (*Snapshot, bool) {
	snap, err := s.memo.Get(c.Request.Context())
	if err != nil {
		s.log.Error("snapshot load failed", zap.Error(err))
		_ = c.Error(err)
		abort(c, http.StatusServiceUnavailable, "snapshot_unavailable", err.Error())
		return nil, false
	}
	return snap, true
}

func (s *Server) Health(c *gin.Context) {
	_, cached := s.memo.Peek()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot_cached": cached})
}

type relationResponse struct {
	RunID   string           `json:"run_id"`
	View    string           `json:"view"`
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	Columns []string         `json:"columns"`
	Data    map[string][]any `json:"data"`
}

// GetRelation returns a page of a named view as column name -> values.
func (s *Server) GetRelation(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		abort(c, http.StatusBadRequest, "invalid_offset", "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit < 0 || limit > maxLimit {
		abort(c, http.StatusBadRequest, "invalid_limit", "limit must be between 0 and "+strconv.Itoa(maxLimit))
		return
	}

	name := c.Param("view")
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	rel, ok := snap.Result.View(name)
	if !ok {
		abort(c, http.StatusNotFound, "unknown_view", "view must be one of full, orders, delivery")
		return
	}
	c.JSON(http.StatusOK, relationResponse{
		RunID:   snap.RunID,
		View:    name,
		Total:   rel.Len(),
		Offset:  offset,
		Limit:   limit,
		Columns: pipeline.ColumnNames(),
		Data:    rel.Slice(offset, limit),
	})
}

func (s *Server) ListViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": analytics.ViewNames, "relations": pipeline.ViewNames})
}

// GetView returns one analytics section of the snapshot report.
func (s *Server) GetView(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	name := c.Param("name")
	section, ok := snap.Report.Section(name)
	if !ok {
		abort(c, http.StatusNotFound, "unknown_view", "unknown analytics view "+strconv.Quote(name))
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": snap.RunID, "view": name, "data": section})
}

// Refresh drops the cached snapshot and rebuilds it.
func (s *Server) Refresh(c *gin.Context) {
	s.memo.Invalidate()
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":       snap.RunID,
		"generated_at": snap.GeneratedAt.UTC().Format(time.RFC3339),
		"stats":        snap.Result.Stats,
	})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
