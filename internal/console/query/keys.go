package query

import "github.com/aussiebroadwan/backoffice/pkg/crmsdk"

// Entity names used as cache key roots.
const (
	EntityProducts        = "products"
	EntityClients         = "clients"
	EntityUsers           = "users"
	EntityCategories      = "categories"
	EntityModels          = "models"
	EntityQuotations      = "quotations"
	EntityDefaultMessages = "default-messages"
	EntityDashboard       = "dashboard"
)

// ListKey identifies one page of an entity list. Encode sorts the query so
// equal parameters always yield equal keys.
func ListKey(entity string, params crmsdk.ListParams) string {
	return ListPrefix(entity) + "?" + params.Values().Encode()
}

// ListPrefix covers every page of an entity list.
func ListPrefix(entity string) string {
	return entity + "/list"
}

// DetailKey identifies a single record.
func DetailKey(entity, id string) string {
	return entity + "/detail/" + id
}
