package sqlite

import (
	"time"

	"log/slog"

	"github.com/garnizeh/neighborly/internal/db"
	"github.com/garnizeh/neighborly/pkg/repository"
)

// SQLiteRepo implements the document store using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.DocumentStore = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
