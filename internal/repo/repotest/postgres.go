package repotest

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
)

var ErrInjected = errors.New("injected failure")

// Transactor runs f directly. Rollback is not modelled.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	t.Calls++
	return f(ctx)
}

type OwnerRepo struct {
	mu     sync.Mutex
	owners map[uuid.UUID]*entity.BusinessOwner

	FailReplace bool
	Lookups     int
}

func NewOwnerRepo() *OwnerRepo {
	return &OwnerRepo{owners: make(map[uuid.UUID]*entity.BusinessOwner)}
}

func clone(o *entity.BusinessOwner) *entity.BusinessOwner {
	c := *o
	c.ObjectKeys = slices.Clone(o.ObjectKeys)
	return &c
}

func sameValue(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (r *OwnerRepo) conflicts(o *entity.BusinessOwner) bool {
	for id, other := range r.owners {
		if id == o.ID {
			continue
		}
		if sameValue(o.Email, other.Email) || sameValue(o.PhoneNumber, other.PhoneNumber) || sameValue(o.Username, other.Username) {
			return true
		}
	}

	return false
}

func (r *OwnerRepo) Create(_ context.Context, owner *entity.BusinessOwner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(owner) {
		return errs.ErrDuplicate
	}
	r.owners[owner.ID] = clone(owner)

	return nil
}

func (r *OwnerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.BusinessOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.owners[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return clone(o), nil
}

func (r *OwnerRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.BusinessOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Lookups++

	for _, o := range r.owners {
		if slices.Contains(o.LoginIdentifiers(), identifier) {
			return clone(o), nil
		}
	}

	return nil, errs.ErrRecordNotFound
}

func (r *OwnerRepo) List(_ context.Context) ([]*entity.BusinessOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.BusinessOwner, 0, len(r.owners))
	for _, o := range r.owners {
		out = append(out, clone(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *OwnerRepo) Update(_ context.Context, owner *entity.BusinessOwner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.owners[owner.ID]
	if !ok {
		return errs.ErrRecordNotFound
	}
	if r.conflicts(owner) {
		return errs.ErrDuplicate
	}

	next := clone(owner)
	next.PasswordHash = cur.PasswordHash
	next.ProfilePicture = cur.ProfilePicture
	next.ObjectKeys = cur.ObjectKeys
	next.CreatedAt = cur.CreatedAt
	r.owners[owner.ID] = next

	return nil
}

func (r *OwnerRepo) ReplaceProfilePicture(_ context.Context, id uuid.UUID, url, newKey, oldKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailReplace {
		return ErrInjected
	}

	o, ok := r.owners[id]
	if !ok {
		return errs.ErrRecordNotFound
	}

	o.ProfilePicture = &url
	o.ObjectKeys = append(slices.DeleteFunc(o.ObjectKeys, func(k string) bool { return k == oldKey }), newKey)
	o.UpdatedAt = time.Now()

	return nil
}

func (r *OwnerRepo) Has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.owners[id]
	return ok
}

// PostRepo serialises writes, which gives UpsertDraft the same single-draft guarantee as the unique index.
// When Owners or Categories is set, UpsertDraft checks the reference like the foreign keys do.
type PostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*entity.Post

	Owners     *OwnerRepo
	Categories *CategoryRepo

	FailUpsert bool
}

func NewPostRepo() *PostRepo {
	return &PostRepo{posts: make(map[uuid.UUID]*entity.Post)}
}

func clonePost(p *entity.Post) *entity.Post {
	c := *p
	c.ObjectKeys = slices.Clone(p.ObjectKeys)
	c.Content.Nodes = slices.Clone(p.Content.Nodes)
	return &c
}

func (r *PostRepo) UpsertDraft(_ context.Context, post *entity.Post) (bool, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpsert {
		return false, nil, ErrInjected
	}
	if r.Owners != nil && !r.Owners.Has(post.CreatorID) {
		return false, nil, errs.ErrRecordNotFound
	}
	if r.Categories != nil && !r.Categories.Has(post.CategoryID) {
		return false, nil, errs.ErrRecordNotFound
	}

	for _, p := range r.posts {
		if p.CreatorID == post.CreatorID && p.CategoryID == post.CategoryID && !p.Submitted {
			prev := slices.Clone(p.ObjectKeys)

			p.Content = post.Content
			p.ObjectKeys = slices.Clone(post.ObjectKeys)
			p.Submitted = post.Submitted
			p.UpdatedAt = post.UpdatedAt

			post.ID = p.ID
			post.CreatedAt = p.CreatedAt

			return false, prev, nil
		}
	}

	r.posts[post.ID] = clonePost(post)

	return true, nil, nil
}

func (r *PostRepo) DraftKeys(_ context.Context, creatorID, categoryID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.CreatorID == creatorID && p.CategoryID == categoryID && !p.Submitted {
			return slices.Clone(p.ObjectKeys), nil
		}
	}

	return nil, nil
}

func (r *PostRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return clonePost(p), nil
}

func (r *PostRepo) List(_ context.Context, filter dto.PostFilter) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Post, 0)
	for _, p := range r.posts {
		if filter.CreatorID != nil && p.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Submitted != nil && p.Submitted != *filter.Submitted {
			continue
		}
		out = append(out, clonePost(p))
	}

	return out, nil
}

func (r *PostRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return 0, errs.ErrRecordNotFound
	}
	delete(r.posts, id)

	return 1, nil
}

func (r *PostRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.posts)
}

type CategoryRepo struct {
	mu         sync.Mutex
	categories []*entity.Category

	FailCreate bool
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate {
		return ErrInjected
	}

	c := *category
	r.categories = append(r.categories, &c)

	return nil
}

func (r *CategoryRepo) Has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.ContainsFunc(r.categories, func(c *entity.Category) bool { return c.ID == id })
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cc := *c
		out = append(out, &cc)
	}

	return out, nil
}

// Releases records enqueued keys in their order.
type Releases struct {
	mu     sync.Mutex
	Keys   []string
	Reason map[string]entity.ReleaseReason

	Fail bool
}

func (r *Releases) Enqueue(_ context.Context, keys []string, reason entity.ReleaseReason) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Fail {
		return ErrInjected
	}
	if r.Reason == nil {
		r.Reason = make(map[string]entity.ReleaseReason)
	}

	for _, k := range keys {
		r.Keys = append(r.Keys, k)
		r.Reason[k] = reason
	}

	return nil
}

func (r *Releases) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.Keys)
}
