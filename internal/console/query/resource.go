package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// Ops binds a Resource to its endpoints. Any operation may be nil when the
// API does not offer it.
type Ops[T, In any] struct {
	List   func(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[T], error)
	Get    func(ctx context.Context, id string) (*T, error)
	Create func(ctx context.Context, in In) (*T, error)
	Update func(ctx context.Context, id string, in In) (*T, error)
	Delete func(ctx context.Context, id string) error
}

// Resource is the cached read and invalidating write surface of one entity.
type Resource[T, In any] struct {
	entity string
	label  string
	cache  *Cache
	notify Notifier
	ops    Ops[T, In]
}

// NewResource builds a Resource for entity. label names one record in
// notices, for example "product".
func NewResource[T, In any](entity, label string, cache *Cache, notify Notifier, ops Ops[T, In]) *Resource[T, In] {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Resource[T, In]{entity: entity, label: label, cache: cache, notify: notify, ops: ops}
}

// Entity returns the cache key root of this resource.
func (r *Resource[T, In]) Entity() string { return r.entity }

// List returns one page, keyed by the serialised parameters.
func (r *Resource[T, In]) List(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[T], error) {
	if r.ops.List == nil {
		return nil, errors.ErrUnsupported
	}
	return Fetch(ctx, r.cache, ListKey(r.entity, params), func(ctx context.Context) (*crmsdk.Page[T], error) {
		return r.ops.List(ctx, params)
	})
}

// Get returns one record.
func (r *Resource[T, In]) Get(ctx context.Context, id string) (*T, error) {
	if r.ops.Get == nil {
		return nil, errors.ErrUnsupported
	}
	return Fetch(ctx, r.cache, DetailKey(r.entity, id), func(ctx context.Context) (*T, error) {
		return r.ops.Get(ctx, id)
	})
}

func (r *Resource[T, In]) Create(ctx context.Context, in In) (*T, error) {
	if r.ops.Create == nil {
		return nil, errors.ErrUnsupported
	}
	return mutate(ctx, r, "create", "", func(ctx context.Context) (*T, error) {
		return r.ops.Create(ctx, in)
	})
}

func (r *Resource[T, In]) Update(ctx context.Context, id string, in In) (*T, error) {
	if r.ops.Update == nil {
		return nil, errors.ErrUnsupported
	}
	return mutate(ctx, r, "update", id, func(ctx context.Context) (*T, error) {
		return r.ops.Update(ctx, id, in)
	})
}

func (r *Resource[T, In]) Delete(ctx context.Context, id string) error {
	if r.ops.Delete == nil {
		return errors.ErrUnsupported
	}
	_, err := mutate(ctx, r, "delete", id, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.ops.Delete(ctx, id)
	})
	return err
}

// mutate runs fn. Failure notifies the server's message and leaves the
// cache alone; success invalidates the entity's lists, the affected record
// and the dashboard counts.
func mutate[T, In, R any](ctx context.Context, r *Resource[T, In], verb, id string, fn func(context.Context) (R, error)) (R, error) {
	out, err := fn(ctx)
	if err != nil {
		r.notify.Notify(ctx, Notice{
			Level:   LevelError,
			Message: crmsdk.UserMessage(err, fmt.Sprintf("Failed to %s %s", verb, r.label)),
		})
		return out, err
	}

	r.cache.Invalidate(ListPrefix(r.entity))
	if id != "" {
		r.cache.InvalidateKey(DetailKey(r.entity, id))
	}
	r.cache.Invalidate(EntityDashboard + "/")

	r.notify.Notify(ctx, Notice{Level: LevelSuccess, Message: capitalize(r.label) + " " + pastTense(verb)})
	return out, nil
}

func pastTense(verb string) string {
	if verb == "reject" {
		return "rejected"
	}
	return verb + "d"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
