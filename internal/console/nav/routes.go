// Package nav holds the console's route table and decides which routes a
// user may open.
package nav

import (
	"context"
	"slices"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/console/session"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

const (
	Login           = session.LoginRoute
	Root            = session.RootRoute
	Dashboard       = session.DashboardRoute
	Products        = "/products"
	Customers       = "/customers"
	Quotations      = "/quotations"
	NewQuotation    = "/quotations/new"
	EditQuotation   = "/quotations/{id}/edit"
	Users           = "/users"
	Categories      = "/categories"
	Models          = "/models"
	DefaultMessages = "/default-messages"
)

var (
	everyone = []crmsdk.Role{crmsdk.RoleAdmin, crmsdk.RoleManager, crmsdk.RoleUser}
	staff    = []crmsdk.Role{crmsdk.RoleAdmin, crmsdk.RoleManager}
	admins   = []crmsdk.Role{crmsdk.RoleAdmin}
)

// Route is one entry of the route table.
type Route struct {
	Pattern string
	Title   string

	// Roles may open the route. Nil means the route is public.
	Roles []crmsdk.Role

	// InMenu lists the route in the sidebar.
	InMenu bool
}

// Table is every route the console knows, in sidebar order.
var Table = []Route{
	{Pattern: Login, Title: "Sign in"},
	{Pattern: Dashboard, Title: "Dashboard", Roles: everyone, InMenu: true},
	{Pattern: Products, Title: "Products", Roles: everyone, InMenu: true},
	{Pattern: Customers, Title: "Customers", Roles: everyone, InMenu: true},
	{Pattern: Quotations, Title: "Quotations", Roles: everyone, InMenu: true},
	{Pattern: NewQuotation, Title: "New quotation", Roles: everyone},
	{Pattern: EditQuotation, Title: "Edit quotation", Roles: everyone},
	{Pattern: Categories, Title: "Categories", Roles: staff, InMenu: true},
	{Pattern: Models, Title: "Models", Roles: staff, InMenu: true},
	{Pattern: Users, Title: "Users", Roles: admins, InMenu: true},
	{Pattern: DefaultMessages, Title: "Default messages", Roles: admins, InMenu: true},
}

// Match reports whether path fits pattern. A {name} segment matches any
// single non-empty segment.
func Match(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], "{") && strings.HasSuffix(ps[i], "}") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

// Lookup finds the route for path. Literal patterns win over
// parameterised ones, so /quotations/new is never read as an id.
func Lookup(path string) (Route, bool) {
	for _, r := range Table {
		if r.Pattern == path {
			return r, true
		}
	}
	for _, r := range Table {
		if strings.Contains(r.Pattern, "{") && Match(r.Pattern, path) {
			return r, true
		}
	}
	return Route{}, false
}

// Allowed reports whether role may open path.
func Allowed(role crmsdk.Role, path string) bool {
	r, ok := Lookup(path)
	if !ok {
		return false
	}
	return r.Roles == nil || slices.Contains(r.Roles, role)
}

// Menu returns the sidebar entries role may see.
func Menu(role crmsdk.Role) []Route {
	var out []Route
	for _, r := range Table {
		if r.InMenu && slices.Contains(r.Roles, role) {
			out = append(out, r)
		}
	}
	return out
}

// EditPath returns the edit route of quotation id.
func EditPath(id string) string {
	return strings.Replace(EditQuotation, "{id}", id, 1)
}

// Resolve combines the session guard with role checks. Unknown paths are
// resolved as the root route; a role that may not open a route is sent to
// the dashboard.
func Resolve(ctx context.Context, ctrl *session.Controller, path string) session.Decision {
	if path == Root {
		return ctrl.Guard(ctx, path)
	}
	if _, ok := Lookup(path); !ok {
		return Resolve(ctx, ctrl, Root)
	}

	d := ctrl.Guard(ctx, path)
	if !d.Allowed() {
		return d
	}

	snap := ctrl.Snapshot()
	if snap.IsAuthenticated && !Allowed(snap.User.Role, path) {
		return session.Decision{Redirect: Dashboard}
	}
	return d
}
