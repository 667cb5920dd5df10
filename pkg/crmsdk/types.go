package crmsdk

import (
	"net/url"
	"strconv"
	"time"
)

// ============================================================================
// Users & Sessions
// ============================================================================

// Role gates navigation and a handful of admin-only operations.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Known reports whether r is one of the roles the API issues.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// UserStatus is the account state of a user.
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusBlocked UserStatus = "blocked"
)

// User is the profile returned by login and the users endpoints.
type User struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// HasIdentity reports whether the user carries the fields a session needs:
// id, email and role.
func (u User) HasIdentity() bool {
	return u.ID != "" && u.Email != "" && u.Role != ""
}

// UserInput is the body for creating or updating a user. Password is only
// sent when set.
type UserInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password,omitempty"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status,omitempty"`
}

// LoginRequest carries credentials for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the session payload returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ============================================================================
// Catalog
// ============================================================================

// Product is a sellable catalog entry.
type Product struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Model         string  `json:"model"`
	Category      string  `json:"category"`
	Image         string  `json:"image,omitempty"`
	Specification string  `json:"specification"`
	Price         float64 `json:"price"`
	Unit          string  `json:"unit,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// ProductInput is the body for creating or updating a product.
type ProductInput struct {
	Title         string  `json:"title"`
	Model         string  `json:"model"`
	Category      string  `json:"category"`
	Image         string  `json:"image,omitempty"`
	Specification string  `json:"specification"`
	Price         float64 `json:"price"`
	Unit          string  `json:"unit,omitempty"`
}

// Category groups products and narrows the quotation product picker.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryInput is the body for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProductModel is a machine model name, optionally tied to a category.
type ProductModel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ProductModelInput is the body for creating or updating a model.
type ProductModelInput struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ============================================================================
// Customers
// ============================================================================

// Customer is a client company quotations are addressed to.
type Customer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompanyCode   string `json:"companyCode"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	GSTNumber     string `json:"gstNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// CustomerInput is the body for creating or updating a customer.
type CustomerInput struct {
	Name          string `json:"name"`
	CompanyCode   string `json:"companyCode"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	GSTNumber     string `json:"gstNumber,omitempty"`
}

// ============================================================================
// Quotations
// ============================================================================

// ApprovalStatus is the admin review state of a quotation.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ConversionStatus is the business outcome of an approved quotation.
type ConversionStatus string

const (
	ConversionUnderDevelopment ConversionStatus = "under_development"
	ConversionBooked           ConversionStatus = "booked"
	ConversionLost             ConversionStatus = "lost"
)

// Known reports whether s is a conversion status the API accepts.
func (s ConversionStatus) Known() bool {
	switch s {
	case ConversionUnderDevelopment, ConversionBooked, ConversionLost:
		return true
	}
	return false
}

// StatusAction is the body value for the admin approval endpoint.
type StatusAction string

const (
	ActionApprove StatusAction = "approve"
	ActionReject  StatusAction = "reject"
)

// LineItem is one product row of a quotation. Display fields are carried
// alongside the product reference so a quotation still renders after the
// product leaves the catalog.
type LineItem struct {
	Product       string  `json:"product"`
	Title         string  `json:"title"`
	Model         string  `json:"model"`
	Image         string  `json:"image,omitempty"`
	Specification string  `json:"specification"`
	Quantity      int     `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unitPrice"`
	Total         float64 `json:"total"`
}

// Installation is the optional machine installation charge.
type Installation struct {
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// CrossSellItem is a related or suggested product with its specification
// override.
type CrossSellItem struct {
	Product       string `json:"product"`
	Title         string `json:"title"`
	Model         string `json:"model"`
	Image         string `json:"image,omitempty"`
	Specification string `json:"specification"`
}

// QuotationInput is the assembled document sent on create and update.
type QuotationInput struct {
	QuotationNumber              string          `json:"quotationNumber"`
	Title                        string          `json:"title"`
	Customer                     string          `json:"customer"`
	Subject                      string          `json:"subject"`
	FormalMessage                string          `json:"formalMessage"`
	Products                     []LineItem      `json:"products"`
	MachineInstallation          *Installation   `json:"machineInstallation,omitempty"`
	Notes                        string          `json:"notes"`
	BillingDetails               string          `json:"billingDetails"`
	Supply                       string          `json:"supply"`
	InstallationAndCommissioning string          `json:"installationAndCommissioning"`
	TermsAndConditions           string          `json:"termsAndConditions"`
	Signature                    string          `json:"signature,omitempty"`
	RelatedProducts              []CrossSellItem `json:"relatedProducts,omitempty"`
	SuggestedProducts            []CrossSellItem `json:"suggestedProducts,omitempty"`
	GST                          bool            `json:"gst"`
	GSTPercentage                float64         `json:"gstPercentage"`
	TotalAmount                  float64         `json:"totalAmount"`
}

// Quotation is a persisted quotation as returned by the API.
type Quotation struct {
	ID string `json:"id"`
	QuotationInput

	CustomerName     string           `json:"customerName,omitempty"`
	Status           ApprovalStatus   `json:"status,omitempty"`
	ConversionStatus ConversionStatus `json:"conversionStatus,omitempty"`
	CreatedBy        string           `json:"createdBy,omitempty"`
	PDFURL           string           `json:"pdfUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// DefaultMessage is the tenant-wide template for a new quotation's free-text
// sections.
type DefaultMessage struct {
	ID                           string `json:"id"`
	FormalMessage                string `json:"formalMessage,omitempty"`
	Notes                        string `json:"notes,omitempty"`
	BillingDetails               string `json:"billingDetails,omitempty"`
	Supply                       string `json:"supply,omitempty"`
	InstallationAndCommissioning string `json:"installationAndCommissioning,omitempty"`
	TermsAndConditions           string `json:"termsAndConditions,omitempty"`
	Signature                    string `json:"signature,omitempty"`
}

// DefaultMessageInput is the body for creating or updating a default message.
type DefaultMessageInput struct {
	FormalMessage                string `json:"formalMessage,omitempty"`
	Notes                        string `json:"notes,omitempty"`
	BillingDetails               string `json:"billingDetails,omitempty"`
	Supply                       string `json:"supply,omitempty"`
	InstallationAndCommissioning string `json:"installationAndCommissioning,omitempty"`
	TermsAndConditions           string `json:"termsAndConditions,omitempty"`
	Signature                    string `json:"signature,omitempty"`
}

// ============================================================================
// Dashboard & Uploads
// ============================================================================

// DashboardStats holds the aggregate counts shown on dashboard cards.
type DashboardStats struct {
	TotalProducts      int `json:"totalProducts"`
	TotalClients       int `json:"totalClients"`
	TotalUsers         int `json:"totalUsers"`
	TotalQuotations    int `json:"totalQuotations"`
	PendingQuotations  int `json:"pendingQuotations"`
	ApprovedQuotations int `json:"approvedQuotations"`
	RejectedQuotations int `json:"rejectedQuotations"`
}

// UploadResponse carries the server-assigned file name of an upload.
type UploadResponse struct {
	Filename string `json:"filename"`
}

// ============================================================================
// Pagination
// ============================================================================

// SortOrder is the direction of a sorted list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams are the query-string parameters shared by every list endpoint.
// Zero values are omitted from the query.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
	Search    string

	// Filters carries entity-specific filters such as category or status.
	Filters map[string]string
}

// Values encodes p as a query string.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", string(p.SortOrder))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	for k, val := range p.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Page is the uniform pagination envelope of list endpoints.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
