package query

import (
	"context"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// API is the part of *crmsdk.Client the hooks call.
type API interface {
	ListProducts(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.Product], error)
	GetProduct(ctx context.Context, id string) (*crmsdk.Product, error)
	CreateProduct(ctx context.Context, in crmsdk.ProductInput) (*crmsdk.Product, error)
	UpdateProduct(ctx context.Context, id string, in crmsdk.ProductInput) (*crmsdk.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCustomers(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.Customer], error)
	GetCustomer(ctx context.Context, id string) (*crmsdk.Customer, error)
	CreateCustomer(ctx context.Context, in crmsdk.CustomerInput) (*crmsdk.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in crmsdk.CustomerInput) (*crmsdk.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListUsers(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.User], error)
	GetUser(ctx context.Context, id string) (*crmsdk.User, error)
	CreateUser(ctx context.Context, in crmsdk.UserInput) (*crmsdk.User, error)
	UpdateUser(ctx context.Context, id string, in crmsdk.UserInput) (*crmsdk.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListCategories(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.Category], error)
	CreateCategory(ctx context.Context, in crmsdk.CategoryInput) (*crmsdk.Category, error)
	UpdateCategory(ctx context.Context, id string, in crmsdk.CategoryInput) (*crmsdk.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListModels(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.ProductModel], error)
	CreateModel(ctx context.Context, in crmsdk.ProductModelInput) (*crmsdk.ProductModel, error)
	UpdateModel(ctx context.Context, id string, in crmsdk.ProductModelInput) (*crmsdk.ProductModel, error)
	DeleteModel(ctx context.Context, id string) error

	ListDefaultMessages(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.DefaultMessage], error)
	CreateDefaultMessage(ctx context.Context, in crmsdk.DefaultMessageInput) (*crmsdk.DefaultMessage, error)
	UpdateDefaultMessage(ctx context.Context, id string, in crmsdk.DefaultMessageInput) (*crmsdk.DefaultMessage, error)
	DeleteDefaultMessage(ctx context.Context, id string) error

	ListQuotations(ctx context.Context, params crmsdk.ListParams) (*crmsdk.Page[crmsdk.Quotation], error)
	GetQuotation(ctx context.Context, id string) (*crmsdk.Quotation, error)
	CreateQuotation(ctx context.Context, in crmsdk.QuotationInput) (*crmsdk.Quotation, error)
	UpdateQuotation(ctx context.Context, id string, in crmsdk.QuotationInput) (*crmsdk.Quotation, error)
	DeleteQuotation(ctx context.Context, id string) error
	SetQuotationStatus(ctx context.Context, id string, action crmsdk.StatusAction) (*crmsdk.Quotation, error)
	SetConversionStatus(ctx context.Context, id string, status crmsdk.ConversionStatus) (*crmsdk.Quotation, error)

	DashboardStatistics(ctx context.Context, userID string) (*crmsdk.DashboardStats, error)
}

var _ API = (*crmsdk.Client)(nil)

// Hooks groups the per-entity resources over one cache.
type Hooks struct {
	Products        *Resource[crmsdk.Product, crmsdk.ProductInput]
	Clients         *Resource[crmsdk.Customer, crmsdk.CustomerInput]
	Users           *Resource[crmsdk.User, crmsdk.UserInput]
	Categories      *Resource[crmsdk.Category, crmsdk.CategoryInput]
	Models          *Resource[crmsdk.ProductModel, crmsdk.ProductModelInput]
	DefaultMessages *Resource[crmsdk.DefaultMessage, crmsdk.DefaultMessageInput]
	Quotations      *Quotations
	Dashboard       *Dashboard

	Cache *Cache
}

// NewHooks wires every entity resource to api.
func NewHooks(api API, cache *Cache, notify Notifier) *Hooks {
	return &Hooks{
		Cache: cache,
		Products: NewResource(EntityProducts, "product", cache, notify, Ops[crmsdk.Product, crmsdk.ProductInput]{
			List: api.ListProducts, Get: api.GetProduct,
			Create: api.CreateProduct, Update: api.UpdateProduct, Delete: api.DeleteProduct,
		}),
		Clients: NewResource(EntityClients, "client", cache, notify, Ops[crmsdk.Customer, crmsdk.CustomerInput]{
			List: api.ListCustomers, Get: api.GetCustomer,
			Create: api.CreateCustomer, Update: api.UpdateCustomer, Delete: api.DeleteCustomer,
		}),
		Users: NewResource(EntityUsers, "user", cache, notify, Ops[crmsdk.User, crmsdk.UserInput]{
			List: api.ListUsers, Get: api.GetUser,
			Create: api.CreateUser, Update: api.UpdateUser, Delete: api.DeleteUser,
		}),
		Categories: NewResource(EntityCategories, "category", cache, notify, Ops[crmsdk.Category, crmsdk.CategoryInput]{
			List:   api.ListCategories,
			Create: api.CreateCategory, Update: api.UpdateCategory, Delete: api.DeleteCategory,
		}),
		Models: NewResource(EntityModels, "model", cache, notify, Ops[crmsdk.ProductModel, crmsdk.ProductModelInput]{
			List:   api.ListModels,
			Create: api.CreateModel, Update: api.UpdateModel, Delete: api.DeleteModel,
		}),
		DefaultMessages: NewResource(EntityDefaultMessages, "default message", cache, notify, Ops[crmsdk.DefaultMessage, crmsdk.DefaultMessageInput]{
			List:   api.ListDefaultMessages,
			Create: api.CreateDefaultMessage, Update: api.UpdateDefaultMessage, Delete: api.DeleteDefaultMessage,
		}),
		Quotations: &Quotations{
			Resource: NewResource(EntityQuotations, "quotation", cache, notify, Ops[crmsdk.Quotation, crmsdk.QuotationInput]{
				List: api.ListQuotations, Get: api.GetQuotation,
				Create: api.CreateQuotation, Update: api.UpdateQuotation, Delete: api.DeleteQuotation,
			}),
			setStatus:     api.SetQuotationStatus,
			setConversion: api.SetConversionStatus,
		},
		Dashboard: &Dashboard{cache: cache, stats: api.DashboardStatistics},
	}
}

// Quotations adds the status transitions to the quotation resource.
type Quotations struct {
	*Resource[crmsdk.Quotation, crmsdk.QuotationInput]

	setStatus     func(ctx context.Context, id string, action crmsdk.StatusAction) (*crmsdk.Quotation, error)
	setConversion func(ctx context.Context, id string, status crmsdk.ConversionStatus) (*crmsdk.Quotation, error)
}

// SetStatus approves or rejects a quotation. Admin only on the server side.
func (q *Quotations) SetStatus(ctx context.Context, id string, action crmsdk.StatusAction) (*crmsdk.Quotation, error) {
	verb := "approve"
	if action == crmsdk.ActionReject {
		verb = "reject"
	}
	return mutate(ctx, q.Resource, verb, id, func(ctx context.Context) (*crmsdk.Quotation, error) {
		return q.setStatus(ctx, id, action)
	})
}

// SetConversionStatus records whether a quotation was booked or lost.
func (q *Quotations) SetConversionStatus(ctx context.Context, id string, status crmsdk.ConversionStatus) (*crmsdk.Quotation, error) {
	return mutate(ctx, q.Resource, "update", id, func(ctx context.Context) (*crmsdk.Quotation, error) {
		return q.setConversion(ctx, id, status)
	})
}

// Dashboard reads the aggregate counters.
type Dashboard struct {
	cache *Cache
	stats func(ctx context.Context, userID string) (*crmsdk.DashboardStats, error)
}

// Stats returns counters for viewer. Admins see tenant-wide numbers; every
// other role sees counts scoped to its own records.
func (d *Dashboard) Stats(ctx context.Context, viewer crmsdk.User) (*crmsdk.DashboardStats, error) {
	userID := viewer.ID
	if viewer.Role == crmsdk.RoleAdmin {
		userID = ""
	}
	return Fetch(ctx, d.cache, EntityDashboard+"/stats?user="+userID, func(ctx context.Context) (*crmsdk.DashboardStats, error) {
		return d.stats(ctx, userID)
	})
}
