package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/console/nav"
	"github.com/aussiebroadwan/backoffice/internal/console/quotation"
	"github.com/aussiebroadwan/backoffice/internal/console/richtext"
	"github.com/aussiebroadwan/backoffice/internal/console/view"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// table is one rendered page of a list.
type table struct {
	headers []string
	rows    [][]string
	pager   string
}

func pageTable[T any](ctx context.Context, l quotation.Lister[T], params crmsdk.ListParams, headers []string, row func(T) []string) (table, error) {
	p, err := l.List(ctx, params)
	if err != nil {
		return table{}, err
	}
	t := table{headers: headers, pager: view.PagerLine(p)}
	for _, item := range p.Items {
		t.rows = append(t.rows, row(item))
	}
	return t, nil
}

// entityList describes how to list one entity.
type entityList struct {
	route string
	fetch func(ctx context.Context, c *cli, params crmsdk.ListParams) (table, error)
}

var entities = map[string]entityList{
	"products": {route: nav.Products, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.Products, p,
			[]string{"ID", "TITLE", "MODEL", "CATEGORY", "PRICE", "UNIT"},
			func(v crmsdk.Product) []string {
				return []string{v.ID, v.Title, v.Model, v.Category, view.Money(v.Price), v.Unit}
			})
	}},
	"customers": {route: nav.Customers, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.Clients, p,
			[]string{"ID", "NAME", "CODE", "CONTACT", "EMAIL", "PHONE"},
			func(v crmsdk.Customer) []string {
				return []string{v.ID, v.Name, v.CompanyCode, v.ContactPerson, v.Email, v.Phone}
			})
	}},
	"quotations": {route: nav.Quotations, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.Quotations, p,
			[]string{"ID", "NUMBER", "TITLE", "CUSTOMER", "STATUS", "CONVERSION", "TOTAL"},
			func(v crmsdk.Quotation) []string {
				customer := v.CustomerName
				if customer == "" {
					customer = v.Customer
				}
				return []string{v.ID, v.QuotationNumber, v.Title, customer, string(v.Status), string(v.ConversionStatus), view.Money(v.TotalAmount)}
			})
	}},
	"users": {route: nav.Users, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.Users, p,
			[]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS"},
			func(v crmsdk.User) []string {
				return []string{v.ID, v.Name, v.Email, string(v.Role), string(v.Status)}
			})
	}},
	"categories": {route: nav.Categories, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.Categories, p,
			[]string{"ID", "NAME", "DESCRIPTION"},
			func(v crmsdk.Category) []string { return []string{v.ID, v.Name, v.Description} })
	}},
	"models": {route: nav.Models, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.Models, p,
			[]string{"ID", "NAME", "CATEGORY"},
			func(v crmsdk.ProductModel) []string { return []string{v.ID, v.Name, v.Category} })
	}},
	"default-messages": {route: nav.DefaultMessages, fetch: func(ctx context.Context, c *cli, p crmsdk.ListParams) (table, error) {
		return pageTable(ctx, c.app.Hooks.DefaultMessages, p,
			[]string{"ID", "FORMAL MESSAGE", "SUPPLY"},
			func(v crmsdk.DefaultMessage) []string {
				return []string{v.ID, truncate(richtext.PlainText(v.FormalMessage), 60), truncate(v.Supply, 40)}
			})
	}},
}

func entityNames() []string {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// filterFlag collects repeated -filter key=value flags.
type filterFlag map[string]string

func (f filterFlag) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (f filterFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("filter %q must be key=value", s)
	}
	f[k] = v
	return nil
}

// listState replays the list flags through the list reducer.
func listState(page, limit int, sortBy string, desc bool, search string, filters map[string]string) view.ListState {
	s := view.NewListState()
	if search != "" {
		s = view.Reduce(s, view.SetSearch{Term: search})
	}
	for k, v := range filters {
		s = view.Reduce(s, view.SetFilter{Key: k, Value: v})
	}
	if sortBy != "" {
		s = view.Reduce(s, view.SortColumn{Column: sortBy})
		if desc {
			s = view.Reduce(s, view.SortColumn{Column: sortBy})
		}
	}
	if limit > 0 {
		s = view.Reduce(s, view.SetLimit{Limit: limit})
	}
	return view.Reduce(s, view.GoToPage{Page: page})
}

func runList(ctx context.Context, c *cli, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("expected an entity: %s", strings.Join(entityNames(), ", "))
	}
	entity, ok := entities[args[0]]
	if !ok {
		return fmt.Errorf("unknown entity %q: expected one of %s", args[0], strings.Join(entityNames(), ", "))
	}

	fs := c.newFlagSet("list " + args[0])
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", view.DefaultLimit, "Rows per page")
	sortBy := fs.String("sort", "", "Column to sort by")
	desc := fs.Bool("desc", false, "Sort descending")
	search := fs.String("search", "", "Search term")
	filters := filterFlag{}
	fs.Var(filters, "filter", "Filter as key=value (repeatable)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if err := c.require(ctx, entity.route); err != nil {
		return err
	}

	state := listState(*page, *limit, *sortBy, *desc, *search, filters)
	t, err := entity.fetch(ctx, c, state.Params())
	if err != nil {
		return err
	}

	if err := view.RenderTable(c.stdout, t.headers, t.rows); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, t.pager)
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
