package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/postgres"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	postsTable = "posts"

	// Columns
	postIDColumn         = "id"
	postCreatorIDColumn  = "creator_id"
	postCategoryIDColumn = "category_id"
	postSubmittedColumn  = "submitted"
	postContentColumn    = "content"
	postObjectKeysColumn = "object_keys"
	postCreatedAtColumn  = "created_at"
	postUpdatedAtColumn  = "updated_at"
)

var postColumns = []string{
	postIDColumn,
	postCreatorIDColumn,
	postCategoryIDColumn,
	postSubmittedColumn,
	postContentColumn,
	postObjectKeysColumn,
	postCreatedAtColumn,
	postUpdatedAtColumn,
}

// The arbiter matches the posts_single_draft_uq partial index.
const upsertDraftSuffix = `ON CONFLICT (creator_id, category_id) WHERE NOT submitted DO UPDATE SET
	content = EXCLUDED.content,
	object_keys = EXCLUDED.object_keys,
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at, (xmax = 0) AS inserted, COALESCE((SELECT object_keys FROM prev), '{}'::text[])`

type PostRepo struct {
	*postgres.Postgres
}

func NewPostRepo(pg *postgres.Postgres) *PostRepo {
	return &PostRepo{pg}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	var p entity.Post

	err := row.Scan(
		&p.ID,
		&p.CreatorID,
		&p.CategoryID,
		&p.Submitted,
		&p.Content,
		&p.ObjectKeys,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func buildUpsertDraft(b squirrel.StatementBuilderType, post *entity.Post) (string, []any, error) {
	keys := post.ObjectKeys
	if keys == nil {
		keys = []string{}
	}

	return b.
		Insert(postsTable).
		Prefix(
			"WITH prev AS (SELECT "+postObjectKeysColumn+" FROM "+postsTable+
				" WHERE "+postCreatorIDColumn+" = ? AND "+postCategoryIDColumn+" = ? AND NOT "+postSubmittedColumn+")",
			post.CreatorID, post.CategoryID,
		).
		Columns(postColumns...).
		Values(
			post.ID,
			post.CreatorID,
			post.CategoryID,
			false,
			post.Content,
			keys,
			post.CreatedAt,
			post.UpdatedAt,
		).
		Suffix(upsertDraftSuffix).
		ToSql()
}

// UpsertDraft inserts post or overwrites the draft of the same creator and category in one statement.
// The row always enters as a draft to hit the draft index; submission is applied in the same transaction.
// On return post carries the stored id and timestamps.
func (r *PostRepo) UpsertDraft(ctx context.Context, post *entity.Post) (bool, []string, error) {
	sql, args, err := buildUpsertDraft(r.Builder, post)
	if err != nil {
		return false, nil, fmt.Errorf("PostRepo - UpsertDraft - buildUpsertDraft: %w", err)
	}

	var (
		inserted bool
		prevKeys []string
	)

	err = r.WithinTransaction(ctx, func(ctx context.Context) error {
		executor := r.GetExecutor(ctx)

		err := executor.QueryRow(ctx, sql, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt, &inserted, &prevKeys)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("creator or category: %w", errs.ErrRecordNotFound)
			}
			return fmt.Errorf("executor.QueryRow.Scan: %w", err)
		}

		if !post.Submitted {
			return nil
		}

		return r.markSubmitted(ctx, post.ID)
	})
	if err != nil {
		return false, nil, fmt.Errorf("PostRepo - UpsertDraft: %w", err)
	}

	if inserted {
		prevKeys = nil
	}

	return inserted, prevKeys, nil
}

func buildDraftKeys(b squirrel.StatementBuilderType, creatorID, categoryID uuid.UUID) (string, []any, error) {
	return b.
		Select(postObjectKeysColumn).
		From(postsTable).
		Where(squirrel.And{
			squirrel.Eq{postCreatorIDColumn: creatorID},
			squirrel.Eq{postCategoryIDColumn: categoryID},
			squirrel.Eq{postSubmittedColumn: false},
		}).
		Suffix("FOR UPDATE").
		ToSql()
}

// DraftKeys returns the keys tracked by the current draft of creatorID in categoryID
// and locks the row for the rest of the transaction. No draft yields no keys.
func (r *PostRepo) DraftKeys(ctx context.Context, creatorID, categoryID uuid.UUID) ([]string, error) {
	sql, args, err := buildDraftKeys(r.Builder, creatorID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("PostRepo - DraftKeys - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var keys []string

	err = executor.QueryRow(ctx, sql, args...).Scan(&keys)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("PostRepo - DraftKeys - executor.QueryRow.Scan: %w", err)
	}

	return keys, nil
}

func (r *PostRepo) markSubmitted(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Update(postsTable).
		Set(postSubmittedColumn, true).
		Where(squirrel.Eq{postIDColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("executor.Exec: %w", err)
	}

	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	sql, args, err := r.Builder.
		Select(postColumns...).
		From(postsTable).
		Where(squirrel.Eq{postIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	post, err := scanPost(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PostRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PostRepo - GetByID - executor.QueryRow.Scan: %w", err)
	}

	return post, nil
}

func (r *PostRepo) List(ctx context.Context, filter dto.PostFilter) ([]*entity.Post, error) {
	where := squirrel.And{}
	if filter.CreatorID != nil {
		where = append(where, squirrel.Eq{postCreatorIDColumn: *filter.CreatorID})
	}
	if filter.CategoryID != nil {
		where = append(where, squirrel.Eq{postCategoryIDColumn: *filter.CategoryID})
	}
	if filter.Submitted != nil {
		where = append(where, squirrel.Eq{postSubmittedColumn: *filter.Submitted})
	}

	sql, args, err := r.Builder.
		Select(postColumns...).
		From(postsTable).
		Where(where).
		OrderBy(postUpdatedAtColumn + " DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepo - List - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("PostRepo - List - executor.Query: %w", err)
	}
	defer rows.Close()

	posts := make([]*entity.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("PostRepo - List - rows.Scan: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostRepo - List - rows.Err: %w", err)
	}

	return posts, nil
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	sql, args, err := r.Builder.
		Delete(postsTable).
		Where(squirrel.Eq{postIDColumn: id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("PostRepo - Delete - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("PostRepo - Delete - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("PostRepo - Delete: %w", errs.ErrRecordNotFound)
	}

	return tag.RowsAffected(), nil
}
