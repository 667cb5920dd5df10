package session_test

import (
	"testing"

	"github.com/aussiebroadwan/backoffice/internal/console/session"
	"github.com/stretchr/testify/require"
)

func TestGuardBeforeHydrate(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	d := f.ctrl.Guard(t.Context(), "/products")
	require.True(t, d.Pending)
	require.Empty(t, d.Redirect)
	require.False(t, d.Allowed())
}

func TestGuardAnonymous(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newFixture(nil)
	f.ctrl.Hydrate(ctx)

	d := f.ctrl.Guard(ctx, "/products")
	require.Equal(t, session.Decision{Redirect: session.LoginRoute, From: "/products"}, d)

	d = f.ctrl.Guard(ctx, session.LoginRoute)
	require.True(t, d.Allowed())
}

func TestGuardAuthenticated(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newFixture(nil)
	f.ctrl.Hydrate(ctx)
	require.NoError(t, f.ctrl.SetSession(ctx, tokenA, admin))

	for _, route := range []string{session.LoginRoute, session.RootRoute} {
		d := f.ctrl.Guard(ctx, route)
		require.Equal(t, session.DashboardRoute, d.Redirect, route)
	}

	require.True(t, f.ctrl.Guard(ctx, "/quotations").Allowed())
}
