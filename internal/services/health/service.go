package health

import (
	"context"
	"database/sql"
	"time"

	"profile-backend/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Service reports process and dependency health.
type Service struct {
	DB *sql.DB
}

// NewService constructs a health service; a nil conn reports the in-memory mode.
func NewService(conn *sql.DB) *Service {
	return &Service{DB: conn}
}

// Status returns the health payload and whether every dependency is up.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true}
	if s == nil || s.DB == nil {
		out["database"] = "memory"
		return out, true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out["ok"] = false
		out["database"] = "unreachable"
		return out, false
	}
	out["database"] = "up"
	out["pool"] = db.PoolStats(s.DB)
	return out, true
}
