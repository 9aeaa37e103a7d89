package persistent

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/postgres"
)

const (
	categoriesTable = "categories"

	categoryIDColumn        = "id"
	categoryNameColumn      = "name"
	categoryIconColumn      = "icon"
	categoryIconKeyColumn   = "icon_key"
	categoryCreatedAtColumn = "created_at"
)

type CategoryRepo struct {
	*postgres.Postgres
}

func NewCategoryRepo(pg *postgres.Postgres) *CategoryRepo {
	return &CategoryRepo{pg}
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	sql, args, err := r.Builder.
		Insert(categoriesTable).
		Columns(
			categoryIDColumn,
			categoryNameColumn,
			categoryIconColumn,
			categoryIconKeyColumn,
			categoryCreatedAtColumn,
		).
		Values(
			category.ID,
			category.Name,
			category.Icon,
			category.IconKey,
			category.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("CategoryRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("CategoryRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	sql, args, err := r.Builder.
		Select(
			categoryIDColumn,
			categoryNameColumn,
			categoryIconColumn,
			categoryIconKeyColumn,
			categoryCreatedAtColumn,
		).
		From(categoriesTable).
		OrderBy(categoryNameColumn + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryRepo - List - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("CategoryRepo - List - executor.Query: %w", err)
	}
	defer rows.Close()

	categories := make([]*entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		err = rows.Scan(&c.ID, &c.Name, &c.Icon, &c.IconKey, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("CategoryRepo - List - rows.Scan: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CategoryRepo - List - rows.Err: %w", err)
	}

	return categories, nil
}
