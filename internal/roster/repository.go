package roster

import (
	"context"
	"database/sql"
)

type Repository interface {
	ActiveByCategory(ctx context.Context, category string) ([]Entry, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) ActiveByCategory(ctx context.Context, category string) ([]Entry, error) {
	query := `SELECT id, name, address, category, is_active, priority_rank
		FROM doctors WHERE category = $1 AND is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Address, &e.Category, &e.IsActive, &e.PriorityRank); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
