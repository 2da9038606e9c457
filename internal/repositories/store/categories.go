package store

import (
	"context"
	"cuentas_claras/internal/models"
	"database/sql"
	"errors"
)

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var (
		c       models.Category
		created nullTime
	)
	if err := row.Scan(&c.ID, &c.Name, &created); err != nil {
		return c, err
	}
	c.CreatedAt = created.Time
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}

	res, err := s.q.ExecContext(ctx,
		"INSERT INTO categories (name, created_at) VALUES (?, ?)",
		c.Name, formatTime(c.CreatedAt))
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	c, err := scanCategory(s.q.QueryRowContext(ctx, "SELECT id, name, created_at FROM categories WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

// CategoryNameTaken compares names case-insensitively.
func (s *Store) CategoryNameTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := s.q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE LOWER(name) = LOWER(?))", name).Scan(&taken)
	return taken, err
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryNames maps every category id to its name.
func (s *Store) CategoryNames(ctx context.Context) (map[int64]string, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// DeleteCategory un-categorizes the expenses that used id, then removes it.
// Callers run it inside WithTx.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.q.ExecContext(ctx, "UPDATE expenses SET category_id = NULL WHERE category_id = ?", id); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}
