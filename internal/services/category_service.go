package services

import (
	"context"
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"fmt"
)

type NewCategory struct {
	Name string `json:"name"`
}

func (l *Ledger) CreateCategory(ctx context.Context, in NewCategory) (models.Category, error) {
	name, err := requireName("name", in.Name, maxCategoryNameLength)
	if err != nil {
		return models.Category{}, err
	}

	c := models.Category{Name: name}
	err = l.store.WithTx(ctx, func(tx *store.Store) error {
		taken, err := tx.CategoryNameTaken(ctx, name)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.InvalidState("category %q already exists", name)
		}
		return tx.CreateCategory(ctx, &c)
	})
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (l *Ledger) ListCategories(ctx context.Context) ([]models.Category, error) {
	list, err := l.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// DeleteCategory removes a category; its expenses become uncategorized.
func (l *Ledger) DeleteCategory(ctx context.Context, id int64) error {
	err := l.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return lookupErr(err, "category", id)
		}
		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		return err
	}

	l.reports.InvalidateAll(ctx)
	return nil
}
