// Package quotation builds quotations through a five-step wizard. All
// wizard state lives in State and changes only through Reduce, so the
// assembled document can be computed and tested without any UI.
package quotation

import (
	"strings"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// Step is a wizard page.
type Step int

const (
	StepHeader Step = iota + 1
	StepLineItems
	StepCommercialText
	StepTerms
	StepCrossSell
)

func (s Step) String() string {
	switch s {
	case StepHeader:
		return "header"
	case StepLineItems:
		return "line items"
	case StepCommercialText:
		return "commercial text"
	case StepTerms:
		return "terms"
	case StepCrossSell:
		return "cross-sell & tax"
	default:
		return "unknown"
	}
}

const (
	// MaxCrossSell caps the related and suggested lists independently.
	MaxCrossSell = 5

	DefaultGSTPercentage = 20.0

	// DefaultQuantity seeds a newly selected line item.
	DefaultQuantity = "1"
)

// LineRow is one line item as edited. Quantity is kept as typed and parsed
// at assembly. The display fields are a snapshot taken when the row was
// created so a row survives its product leaving the catalog.
type LineRow struct {
	Product       string
	Title         string
	Model         string
	Image         string
	Specification string
	Quantity      string
	Unit          string
	UnitPrice     float64

	// Orphaned marks a row whose product is no longer in the catalog.
	Orphaned bool
}

// InstallationDraft is the optional machine installation block, as typed.
type InstallationDraft struct {
	Quantity  string
	Unit      string
	UnitPrice string
	Total     string
}

// IsEmpty reports whether every sub-field is blank.
func (i InstallationDraft) IsEmpty() bool {
	return strings.TrimSpace(i.Quantity) == "" &&
		strings.TrimSpace(i.Unit) == "" &&
		strings.TrimSpace(i.UnitPrice) == "" &&
		strings.TrimSpace(i.Total) == ""
}

// CrossSellRow is a related or suggested product with its specification
// override.
type CrossSellRow struct {
	Product       string
	Title         string
	Model         string
	Image         string
	Specification string
	Orphaned      bool
}

// Draft is the document being assembled.
type Draft struct {
	QuotationNumber string

	Title         string
	Customer      string
	Subject       string
	FormalMessage string

	Lines        []LineRow
	Installation InstallationDraft

	Notes                        string
	BillingDetails               string
	Supply                       string
	InstallationAndCommissioning string
	TermsAndConditions           string
	Signature                    string

	Related   []CrossSellRow
	Suggested []CrossSellRow

	GST           bool
	GSTPercentage float64
}

// Catalog is the reference data the wizard picks from.
type Catalog struct {
	Products  []crmsdk.Product
	Customers []crmsdk.Customer
}

// Product finds a product by id.
func (c Catalog) Product(id string) (crmsdk.Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return crmsdk.Product{}, false
}

// Customer finds a customer by id.
func (c Catalog) Customer(id string) (crmsdk.Customer, bool) {
	for _, cu := range c.Customers {
		if cu.ID == id {
			return cu, true
		}
	}
	return crmsdk.Customer{}, false
}

// SearchCustomers matches term against customer name and company code,
// ignoring case. An empty term matches everyone.
func (c Catalog) SearchCustomers(term string) []crmsdk.Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []crmsdk.Customer
	for _, cu := range c.Customers {
		if term == "" ||
			strings.Contains(strings.ToLower(cu.Name), term) ||
			strings.Contains(strings.ToLower(cu.CompanyCode), term) {
			out = append(out, cu)
		}
	}
	return out
}

// ResolveCustomer accepts an id, a company code or an exact name and
// returns the customer id.
func (c Catalog) ResolveCustomer(ref string) (string, bool) {
	if cu, ok := c.Customer(ref); ok {
		return cu.ID, true
	}
	for _, cu := range c.Customers {
		if strings.EqualFold(cu.CompanyCode, ref) || strings.EqualFold(cu.Name, ref) {
			return cu.ID, true
		}
	}
	return "", false
}

// State is the whole wizard.
type State struct {
	Step    Step
	Draft   Draft
	Catalog Catalog

	// CategoryFilter narrows the product picker. It is not part of the draft.
	CategoryFilter string

	// EditingID is set when the wizard edits an existing quotation.
	EditingID string
}

// New starts an empty wizard on the header step.
func New(catalog Catalog) State {
	return State{
		Step:    StepHeader,
		Catalog: catalog,
		Draft:   Draft{GSTPercentage: DefaultGSTPercentage},
	}
}

// Editing reports whether the wizard edits an existing quotation.
func (s State) Editing() bool { return s.EditingID != "" }

// PickerOptions lists the products the line-item picker offers: the whole
// catalog, or only the filtered category.
func PickerOptions(s State) []crmsdk.Product {
	if s.CategoryFilter == "" {
		return s.Catalog.Products
	}
	var out []crmsdk.Product
	for _, p := range s.Catalog.Products {
		if p.Category == s.CategoryFilter {
			out = append(out, p)
		}
	}
	return out
}
