package session

import "context"

const (
	LoginRoute     = "/login"
	RootRoute      = "/"
	DashboardRoute = "/dashboard"
)

// Decision is the outcome of guarding a route.
type Decision struct {
	// Pending is set until the session has been hydrated. No redirect is
	// made while pending.
	Pending bool

	// Redirect is the route to go to instead, empty to stay.
	Redirect string

	// From is the route that was interrupted by a redirect to login.
	From string
}

// Allowed reports whether the route may render as requested.
func (d Decision) Allowed() bool { return !d.Pending && d.Redirect == "" }

// Guard decides whether route may be shown. Unauthenticated users are sent
// to login with the origin remembered; authenticated users on the login or
// root route are sent to the dashboard.
func (c *Controller) Guard(ctx context.Context, route string) Decision {
	snap := c.Snapshot()
	if !snap.IsInitialized {
		return Decision{Pending: true}
	}

	if !snap.IsAuthenticated {
		if route == LoginRoute {
			return Decision{}
		}
		c.creds.Remember(ctx, fromKey, route)
		return Decision{Redirect: LoginRoute, From: route}
	}

	if route == LoginRoute || route == RootRoute {
		return Decision{Redirect: DashboardRoute}
	}
	return Decision{}
}
