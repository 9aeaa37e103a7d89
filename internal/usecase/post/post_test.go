package post

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/repotest"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectgateway"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc       *PostUseCase
	posts    *repotest.PostRepo
	storage  *repotest.Storage
	releases *repotest.Releases
}

func newFixture() *fixture {
	f := &fixture{
		posts:    repotest.NewPostRepo(),
		storage:  repotest.NewStorage(),
		releases: &repotest.Releases{},
	}

	gw := objectgateway.New(f.storage, f.releases, repotest.NopLogger{})
	f.uc = New(f.posts, gw, f.releases, &repotest.Transactor{}, repotest.NopLogger{})

	return f
}

func content(t *testing.T, raw string) entity.PostContent {
	t.Helper()

	var c entity.PostContent
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	return c
}

const (
	textOnly   = `{"nodes":[{"id":"1","type":"text","data":{"label":"hi"}}]}`
	withInline = `{"nodes":[
		{"id":"1","type":"image","data":{"images":["data:image/png;base64,iVBORw0KGgo=","data:image/jpeg;base64,/9j/4AAQ"]}},
		{"id":"2","type":"text","data":{"label":"x"}}
	]}`
)

func TestUpsertDraft_SequentialConverges(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator, category := uuid.New(), uuid.New()

	first, created, err := f.uc.UpsertDraft(ctx, creator, category, content(t, textOnly), false)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.uc.UpsertDraft(ctx, creator, category, content(t, textOnly), false)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.posts.Len())
}

func TestUpsertDraft_ConcurrentConverges(t *testing.T) {
	f := newFixture()
	creator, category := uuid.New(), uuid.New()

	const n = 16
	in := content(t, textOnly)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[uuid.UUID]struct{})
		created int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			p, c, err := f.uc.UpsertDraft(context.Background(), creator, category, in, false)
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			ids[p.ID] = struct{}{}
			if c {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.posts.Len())
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)
}

func TestUpsertDraft_SubmittedStartsNewDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator, category := uuid.New(), uuid.New()

	submitted, _, err := f.uc.UpsertDraft(ctx, creator, category, content(t, textOnly), true)
	require.NoError(t, err)

	draft, created, err := f.uc.UpsertDraft(ctx, creator, category, content(t, textOnly), false)
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotEqual(t, submitted.ID, draft.ID)
	assert.Equal(t, 2, f.posts.Len())
}

func TestUpsertDraft_ResolvesInlineImages(t *testing.T) {
	f := newFixture()
	creator := uuid.New()

	in := content(t, withInline)
	require.Equal(t, 2, in.InlineCount())

	post, _, err := f.uc.UpsertDraft(context.Background(), creator, uuid.New(), in, false)
	require.NoError(t, err)

	assert.Equal(t, 2, in.InlineCount(), "caller content is left untouched")
	assert.Zero(t, post.Content.InlineCount())

	urls := post.Content.ResolvedURLs()
	require.Len(t, urls, 2)
	assert.True(t, strings.HasSuffix(urls[0], ".png"))
	assert.True(t, strings.HasSuffix(urls[1], ".jpg"))

	require.Len(t, post.ObjectKeys, 2)
	for _, key := range post.ObjectKeys {
		assert.True(t, strings.HasPrefix(key, "post-images/"+creator.String()+"-"))
		assert.True(t, f.storage.Has(key))
	}

	b, err := json.Marshal(post.Content)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "data:")
	assert.Contains(t, string(b), `"label":"x"`)

	stored, err := f.uc.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, urls, stored.Content.ResolvedURLs())
}

func TestUpsertDraft_ExternalURLsNotTracked(t *testing.T) {
	f := newFixture()

	in := content(t, `{"nodes":[{"id":"1","data":{"images":["https://cdn.example.com/a.png",{"url":"`+repotest.BaseURL+`/post-images/x.png"}]}}]}`)

	post, _, err := f.uc.UpsertDraft(context.Background(), uuid.New(), uuid.New(), in, false)
	require.NoError(t, err)

	assert.Empty(t, post.ObjectKeys)
	assert.Equal(t, 0, f.storage.Len())
}

func TestUpsertDraft_ForeignObjectsNotClaimed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice, bob, category := uuid.New(), uuid.New(), uuid.New()

	aliceDraft, _, err := f.uc.UpsertDraft(ctx, alice, category, content(t, withInline), false)
	require.NoError(t, err)
	require.Len(t, aliceDraft.ObjectKeys, 2)

	borrowed := aliceDraft.Content.ResolvedURLs()[0]
	bobDraft, _, err := f.uc.UpsertDraft(ctx, bob, category, content(t, `{"nodes":[{"id":"1","data":{"images":["`+borrowed+`"]}}]}`), false)
	require.NoError(t, err)
	assert.Empty(t, bobDraft.ObjectKeys)

	_, _, err = f.uc.UpsertDraft(ctx, bob, category, content(t, textOnly), false)
	require.NoError(t, err)
	assert.Empty(t, f.releases.Snapshot())

	res, err := f.uc.DeleteDraft(ctx, bobDraft.ID)
	require.NoError(t, err)
	assert.Empty(t, res.FailedKeys)

	for _, key := range aliceDraft.ObjectKeys {
		assert.True(t, f.storage.Has(key), key)
	}
	assert.Empty(t, f.storage.Deleted)
}

func TestUpsertDraft_MissingCategory(t *testing.T) {
	f := newFixture()
	f.posts.Categories = &repotest.CategoryRepo{}

	_, _, err := f.uc.UpsertDraft(context.Background(), uuid.New(), uuid.New(), content(t, withInline), false)
	require.ErrorIs(t, err, errs.ErrRecordNotFound)

	assert.Equal(t, 0, f.posts.Len())
	assert.Equal(t, 0, f.storage.Len())
	assert.Len(t, f.storage.Deleted, 2)
}

func TestUpsertDraft_ReleasesDroppedKeys(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator, category := uuid.New(), uuid.New()

	first, _, err := f.uc.UpsertDraft(ctx, creator, category, content(t, withInline), false)
	require.NoError(t, err)
	require.Len(t, first.ObjectKeys, 2)

	kept := first.Content.ResolvedURLs()[0]
	next := content(t, `{"nodes":[{"id":"1","data":{"images":["`+kept+`"]}}]}`)

	second, _, err := f.uc.UpsertDraft(ctx, creator, category, next, false)
	require.NoError(t, err)

	assert.Equal(t, first.ObjectKeys[:1], second.ObjectKeys)
	assert.Equal(t, first.ObjectKeys[1:], f.releases.Snapshot())
	assert.Equal(t, entity.ReasonDraftReplaced, f.releases.Reason[first.ObjectKeys[1]])
}

func TestUpsertDraft_UploadFailure(t *testing.T) {
	f := newFixture()
	f.storage.FailUploadAfter = 1

	_, _, err := f.uc.UpsertDraft(context.Background(), uuid.New(), uuid.New(), content(t, withInline), false)
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)

	assert.Equal(t, 0, f.posts.Len())
	assert.Equal(t, 0, f.storage.Len())
	assert.Len(t, f.storage.Deleted, 1)
}

func TestUpsertDraft_PersistFailureCompensates(t *testing.T) {
	f := newFixture()
	f.posts.FailUpsert = true

	_, _, err := f.uc.UpsertDraft(context.Background(), uuid.New(), uuid.New(), content(t, withInline), false)
	require.ErrorIs(t, err, repotest.ErrInjected)

	assert.Equal(t, 0, f.storage.Len())
	assert.Len(t, f.storage.Deleted, 2)
}

func TestUpsertDraft_RequiresIDs(t *testing.T) {
	f := newFixture()

	_, _, err := f.uc.UpsertDraft(context.Background(), uuid.Nil, uuid.New(), content(t, textOnly), false)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDeleteDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	post, _, err := f.uc.UpsertDraft(ctx, uuid.New(), uuid.New(), content(t, withInline), false)
	require.NoError(t, err)

	res, err := f.uc.DeleteDraft(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, dto.DeleteResult{Deleted: 1}, res)
	assert.Equal(t, 0, f.storage.Len())
	assert.Empty(t, f.releases.Snapshot())
}

func TestDeleteDraft_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.DeleteDraft(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestDeleteDraft_RemoteFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	post, _, err := f.uc.UpsertDraft(ctx, uuid.New(), uuid.New(), content(t, withInline), false)
	require.NoError(t, err)

	stuck := post.ObjectKeys[1]
	f.storage.FailDelete[stuck] = true

	res, err := f.uc.DeleteDraft(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Deleted)
	assert.Equal(t, []string{stuck}, res.FailedKeys)
	assert.Equal(t, []string{stuck}, f.releases.Snapshot())
	assert.Equal(t, entity.ReasonDraftDeleted, f.releases.Reason[stuck])

	_, err = f.uc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestListByFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator, catA, catB := uuid.New(), uuid.New(), uuid.New()

	_, _, err := f.uc.UpsertDraft(ctx, creator, catA, content(t, textOnly), false)
	require.NoError(t, err)
	_, _, err = f.uc.UpsertDraft(ctx, creator, catB, content(t, textOnly), true)
	require.NoError(t, err)
	_, _, err = f.uc.UpsertDraft(ctx, uuid.New(), catA, content(t, textOnly), false)
	require.NoError(t, err)

	mine, err := f.uc.ListByCreator(ctx, creator)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	submitted := true
	done, err := f.uc.ListByFilter(ctx, dto.PostFilter{CreatorID: &creator, Submitted: &submitted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, catB, done[0].CategoryID)

	inA, err := f.uc.ListByFilter(ctx, dto.PostFilter{CategoryID: &catA})
	require.NoError(t, err)
	assert.Len(t, inA, 2)
}
