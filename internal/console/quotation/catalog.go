package quotation

import (
	"context"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// catalogPageSize is the page size used to pull whole reference lists.
const catalogPageSize = 100

// Lister reads one page of an entity list.
type Lister[T any] interface {
	List(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[T], error)
}

// ListAll reads every page of a list.
func ListAll[T any](ctx context.Context, l Lister[T]) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		p, err := l.List(ctx, crmsdk.ListParams{Page: page, Limit: catalogPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.TotalPages || len(p.Items) == 0 {
			return all, nil
		}
	}
}

// LoadCatalog pulls every product and customer.
func LoadCatalog(ctx context.Context, products Lister[crmsdk.Product], customers Lister[crmsdk.Customer]) (Catalog, error) {
	ps, err := ListAll(ctx, products)
	if err != nil {
		return Catalog{}, err
	}
	cs, err := ListAll(ctx, customers)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Products: ps, Customers: cs}, nil
}

// LoadDefaults returns the tenant's default message, if one exists.
func LoadDefaults(ctx context.Context, messages Lister[crmsdk.DefaultMessage]) (crmsdk.DefaultMessage, bool, error) {
	p, err := messages.List(ctx, crmsdk.ListParams{Page: 1, Limit: 1})
	if err != nil {
		return crmsdk.DefaultMessage{}, false, err
	}
	if len(p.Items) == 0 {
		return crmsdk.DefaultMessage{}, false, nil
	}
	return p.Items[0], true, nil
}
