package persistent

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpsertDraft(t *testing.T) {
	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	now := time.Now()

	post := &entity.Post{
		ID:         uuid.New(),
		CreatorID:  uuid.New(),
		CategoryID: uuid.New(),
		Submitted:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	sql, args, err := buildUpsertDraft(b, post)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "WITH prev AS (SELECT object_keys FROM posts WHERE creator_id = $1 AND category_id = $2 AND NOT submitted)"))
	assert.Contains(t, sql, "INSERT INTO posts (id,creator_id,category_id,submitted,content,object_keys,created_at,updated_at) VALUES ($3,$4,$5,$6,$7,$8,$9,$10)")
	assert.Contains(t, sql, "ON CONFLICT (creator_id, category_id) WHERE NOT submitted DO UPDATE SET")
	assert.Contains(t, sql, "(xmax = 0) AS inserted")

	require.Len(t, args, 10)
	assert.Equal(t, post.CreatorID, args[0])
	assert.Equal(t, post.CategoryID, args[1])
	assert.Equal(t, post.ID, args[2])
	assert.Equal(t, false, args[5], "row must enter as a draft")
	assert.Equal(t, []string{}, args[7])
}

func TestBuildDraftKeys(t *testing.T) {
	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	creator, category := uuid.New(), uuid.New()

	sql, args, err := buildDraftKeys(b, creator, category)
	require.NoError(t, err)

	assert.Equal(t, "SELECT object_keys FROM posts WHERE (creator_id = $1 AND category_id = $2 AND submitted = $3) FOR UPDATE", sql)
	assert.Equal(t, []any{creator, category, false}, args)
}

func TestViolationCodes(t *testing.T) {
	fk := fmt.Errorf("scan: %w", &pgconn.PgError{Code: "23503"})
	unique := &pgconn.PgError{Code: "23505"}

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}
