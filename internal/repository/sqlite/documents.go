package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

func (r *SQLiteRepo) Get(ctx context.Context, key string) (json.RawMessage, error) {
	row := r.conn.QueryRow(ctx, `SELECT value FROM documents WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return json.RawMessage(value), nil
}

func (r *SQLiteRepo) Put(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return fmt.Errorf("document key is empty")
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO documents (key, value, updated) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated`,
		key, string(value), now())
	return err
}

func (r *SQLiteRepo) Delete(ctx context.Context, key string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM documents WHERE key = ?`, key)
	return err
}

func (r *SQLiteRepo) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT key, value FROM documents WHERE key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}

		out[key] = json.RawMessage(value)
	}

	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards so prefixes match literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
