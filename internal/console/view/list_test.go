package view_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aussiebroadwan/backoffice/internal/console/view"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
	"github.com/stretchr/testify/require"
)

func TestListStateSorting(t *testing.T) {
	t.Parallel()

	s := view.NewListState()
	s = view.Reduce(s, view.SortColumn{Column: "title"})
	require.Equal(t, "title", s.SortBy)
	require.Equal(t, crmsdk.SortAsc, s.SortOrder)

	s = view.Reduce(s, view.SortColumn{Column: "title"})
	require.Equal(t, crmsdk.SortDesc, s.SortOrder)

	s = view.Reduce(s, view.SortColumn{Column: "title"})
	require.Equal(t, crmsdk.SortAsc, s.SortOrder)

	s = view.Reduce(s, view.SortColumn{Column: "price"})
	require.Equal(t, "price", s.SortBy)
	require.Equal(t, crmsdk.SortAsc, s.SortOrder)
}

func TestListStateSearchResetsPage(t *testing.T) {
	t.Parallel()

	s := view.Reduce(view.NewListState(), view.GoToPage{Page: 4})
	require.Equal(t, 4, s.Page)

	same := view.Reduce(s, view.SetSearch{Term: ""})
	require.Equal(t, 4, same.Page)

	s = view.Reduce(s, view.SetSearch{Term: "mixer"})
	require.Equal(t, 1, s.Page)
	require.Equal(t, "mixer", s.Params().Search)

	s = view.Reduce(s, view.GoToPage{Page: 0})
	require.Equal(t, 1, s.Page, "pages below one are ignored")
}

func TestListStateFiltersDoNotAlias(t *testing.T) {
	t.Parallel()

	a := view.Reduce(view.NewListState(), view.SetFilter{Key: "category", Value: "c1"})
	b := view.Reduce(a, view.SetFilter{Key: "category", Value: "c2"})
	c := view.Reduce(b, view.SetFilter{Key: "category", Value: ""})

	require.Equal(t, "c1", a.Filters["category"])
	require.Equal(t, "c2", b.Filters["category"])
	require.NotContains(t, c.Filters, "category")

	p := b.Params()
	p.Filters["category"] = "mutated"
	require.Equal(t, "c2", b.Filters["category"])
}

func TestListStateModals(t *testing.T) {
	t.Parallel()

	s := view.Reduce(view.NewListState(), view.OpenModal{Modal: view.ModalEdit, ID: "p1"})
	require.Equal(t, view.ModalEdit, s.Modal)
	require.Equal(t, "p1", s.Selected)

	s = view.Reduce(s, view.SetPending{Pending: true})
	require.True(t, s.Pending)

	s = view.Reduce(s, view.CloseModal{})
	require.Equal(t, view.ModalClosed, s.Modal)
	require.Empty(t, s.Selected)
	require.False(t, s.Pending)

	s = view.Reduce(s, view.OpenModal{Modal: view.ModalCreate, ID: "ignored"})
	require.Empty(t, s.Selected)

	s = view.Reduce(s, view.SetLimit{Limit: 50})
	require.Equal(t, 50, s.Params().Limit)
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := view.RenderTable(&buf, []string{"ID", "TITLE", "PRICE"}, [][]string{
		{"p1", "Mixer", "500.00"},
		{"p2", "Drill\nPro", "1,200.00"},
		{"p3"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "ID"))
	require.Contains(t, lines[2], "Drill Pro")

	buf.Reset()
	require.NoError(t, view.RenderTable(&buf, []string{"ID"}, nil))
	require.Contains(t, buf.String(), "(no results)")
}

func TestPagerLineAndMoney(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Page 2 of 3 (25 total)", view.PagerLine(&crmsdk.Page[crmsdk.Product]{Page: 2, TotalPages: 3, Total: 25}))
	require.Equal(t, "Page 1 of 1 (0 total)", view.PagerLine(&crmsdk.Page[crmsdk.Product]{Page: 1}))

	require.Equal(t, "0.00", view.Money(0))
	require.Equal(t, "1,000.00", view.Money(1000))
	require.Equal(t, "123,456.50", view.Money(123456.5))
	require.Equal(t, "-1,234.00", view.Money(-1234))
}
