package category

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/processor"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/repotest"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectgateway"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc         *CategoryUseCase
	categories *repotest.CategoryRepo
	storage    *repotest.Storage
}

func newFixture() *fixture {
	f := &fixture{
		categories: &repotest.CategoryRepo{},
		storage:    repotest.NewStorage(),
	}

	gw := objectgateway.New(f.storage, &repotest.Releases{}, repotest.NopLogger{})
	f.uc = New(f.categories, gw, processor.New(), repotest.NopLogger{})

	return f
}

func icon(t *testing.T) dto.FileUpload {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(400, 200, color.NRGBA{G: 120, A: 255})))

	return dto.FileUpload{Name: "shoes.png", ContentType: "image/png", Data: buf.Bytes()}
}

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.uc.Create(ctx, " Shoes ", icon(t))
	require.NoError(t, err)

	assert.Equal(t, "Shoes", c.Name)
	assert.True(t, strings.HasPrefix(c.IconKey, "categoryicons/"+c.ID.String()+"-"))
	assert.Equal(t, repotest.BaseURL+"/"+c.IconKey, c.Icon)

	obj, ok := f.storage.Objects[c.IconKey]
	require.True(t, ok)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(obj.Data))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 128, cfg.Height)

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), "  ", icon(t))
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.uc.Create(context.Background(), "Shoes", dto.FileUpload{ContentType: "image/png"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.uc.Create(context.Background(), "Shoes", dto.FileUpload{ContentType: "text/plain", Data: []byte("x")})
	assert.ErrorIs(t, err, errs.ErrUnsupportedMedia)

	assert.Equal(t, 0, f.storage.Len())
}

func TestCreate_PersistFailureRemovesIcon(t *testing.T) {
	f := newFixture()
	f.categories.FailCreate = true

	_, err := f.uc.Create(context.Background(), "Shoes", icon(t))
	require.ErrorIs(t, err, repotest.ErrInjected)

	assert.Equal(t, 0, f.storage.Len())
	assert.Len(t, f.storage.Deleted, 1)

	list, err := f.uc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
