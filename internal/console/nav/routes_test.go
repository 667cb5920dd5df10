package nav_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/backoffice/internal/console/nav"
	"github.com/aussiebroadwan/backoffice/internal/console/session"
	"github.com/aussiebroadwan/backoffice/pkg/credstore"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMatchAndLookup(t *testing.T) {
	t.Parallel()

	require.True(t, nav.Match(nav.EditQuotation, "/quotations/q1/edit"))
	require.False(t, nav.Match(nav.EditQuotation, "/quotations//edit"))
	require.False(t, nav.Match(nav.EditQuotation, "/quotations/q1"))

	r, ok := nav.Lookup("/quotations/new")
	require.True(t, ok)
	require.Equal(t, nav.NewQuotation, r.Pattern)

	r, ok = nav.Lookup(nav.EditPath("q9"))
	require.True(t, ok)
	require.Equal(t, nav.EditQuotation, r.Pattern)

	_, ok = nav.Lookup("/nowhere")
	require.False(t, ok)
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role crmsdk.Role
		path string
		want bool
	}{
		{crmsdk.RoleUser, nav.Quotations, true},
		{crmsdk.RoleUser, nav.EditPath("q1"), true},
		{crmsdk.RoleUser, nav.Users, false},
		{crmsdk.RoleUser, nav.Categories, false},
		{crmsdk.RoleManager, nav.Categories, true},
		{crmsdk.RoleManager, nav.DefaultMessages, false},
		{crmsdk.RoleAdmin, nav.Users, true},
		{crmsdk.RoleAdmin, nav.DefaultMessages, true},
		{crmsdk.Role(""), nav.Login, true},
		{crmsdk.RoleAdmin, "/nowhere", false},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, nav.Allowed(tc.role, tc.path), "%s %s", tc.role, tc.path)
	}
}

func TestMenu(t *testing.T) {
	t.Parallel()

	titles := func(rs []nav.Route) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Title)
		}
		return out
	}

	require.Equal(t, []string{"Dashboard", "Products", "Customers", "Quotations"}, titles(nav.Menu(crmsdk.RoleUser)))
	require.Equal(t, []string{"Dashboard", "Products", "Customers", "Quotations", "Categories", "Models"}, titles(nav.Menu(crmsdk.RoleManager)))
	require.Len(t, nav.Menu(crmsdk.RoleAdmin), 8)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) {}

func newController(t *testing.T, user *crmsdk.User) *session.Controller {
	t.Helper()

	ctx := t.Context()
	store := credstore.New(credstore.NewMemory(), credstore.WithLogger(slogx.Discard()))
	ctrl := session.New(store, nil, noopNavigator{}, session.WithLogger(slogx.Discard()))
	ctrl.Hydrate(ctx)
	if user != nil {
		require.NoError(t, ctrl.SetSession(ctx, "aaa.bbb.ccc", *user))
	}
	return ctrl
}

func TestResolve(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	anon := newController(t, nil)
	require.Equal(t, session.Decision{Redirect: nav.Login, From: nav.Users}, nav.Resolve(ctx, anon, nav.Users))
	require.Equal(t, nav.Login, nav.Resolve(ctx, anon, "/nowhere").Redirect)

	user := newController(t, &crmsdk.User{ID: "u1", Email: "u@example.com", Role: crmsdk.RoleUser})
	require.Equal(t, nav.Dashboard, nav.Resolve(ctx, user, nav.Users).Redirect)
	require.Equal(t, nav.Dashboard, nav.Resolve(ctx, user, "/nowhere").Redirect)
	require.True(t, nav.Resolve(ctx, user, nav.Quotations).Allowed())
	require.Equal(t, nav.Dashboard, nav.Resolve(ctx, user, nav.Login).Redirect)
}
