package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/xela07ax/truverse-dashboard/internal/snapshot"
)

// SnapshotRepo хранит историю блобов переопределения дашборда.
// Последняя запись и есть текущее переопределение.
type SnapshotRepo struct {
	db DB
}

func NewSnapshotRepo(db DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Load реализует snapshot.Source: отдает последний сохраненный блоб
func (r *SnapshotRepo) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT payload FROM dashboard_snapshots ORDER BY created_at DESC LIMIT 1`

	var payload []byte
	err := r.db.QueryRow(ctx, query).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, snapshot.ErrNoSnapshot
		}
		return nil, fmt.Errorf("postgres: failed to load snapshot: %w", err)
	}
	return payload, nil
}

// Save добавляет новую версию блоба и возвращает ее ID
func (r *SnapshotRepo) Save(ctx context.Context, payload []byte, author string) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO dashboard_snapshots (id, payload, author, created_at) VALUES ($1, $2, $3, NOW())`

	if _, err := r.db.Exec(ctx, query, id, payload, author); err != nil {
		return "", fmt.Errorf("postgres: failed to save snapshot: %w", err)
	}
	return id, nil
}
