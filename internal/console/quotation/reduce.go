package quotation

import (
	"slices"

	"github.com/aussiebroadwan/backoffice/internal/console/richtext"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// Field names a free-text field of the draft. The string form is the
// field's name in the submitted document.
type Field string

const (
	FieldTitle                        Field = "title"
	FieldCustomer                     Field = "customer"
	FieldSubject                      Field = "subject"
	FieldFormalMessage                Field = "formalMessage"
	FieldNotes                        Field = "notes"
	FieldBillingDetails               Field = "billingDetails"
	FieldSupply                       Field = "supply"
	FieldInstallationAndCommissioning Field = "installationAndCommissioning"
	FieldTermsAndConditions           Field = "termsAndConditions"
	FieldSignature                    Field = "signature"
)

// text returns the address of f in d, or nil for an unknown field.
func (d *Draft) text(f Field) *string {
	switch f {
	case FieldTitle:
		return &d.Title
	case FieldCustomer:
		return &d.Customer
	case FieldSubject:
		return &d.Subject
	case FieldFormalMessage:
		return &d.FormalMessage
	case FieldNotes:
		return &d.Notes
	case FieldBillingDetails:
		return &d.BillingDetails
	case FieldSupply:
		return &d.Supply
	case FieldInstallationAndCommissioning:
		return &d.InstallationAndCommissioning
	case FieldTermsAndConditions:
		return &d.TermsAndConditions
	case FieldSignature:
		return &d.Signature
	}
	return nil
}

// LineField names an editable column of a line item.
type LineField int

const (
	LineQuantity LineField = iota
	LineUnit
	LineSpecification
)

// CrossSellList picks the related or the suggested list.
type CrossSellList int

const (
	Related CrossSellList = iota
	Suggested
)

// Action is one change to the wizard.
type Action interface {
	reduce(State) State
}

type (
	// SetHeader replaces the four header fields.
	SetHeader struct {
		Title, Customer, Subject, FormalMessage string
	}

	// SetText replaces one free-text field.
	SetText struct {
		Field Field
		Value string
	}

	// SelectCategory narrows the product picker. An empty category clears
	// the filter.
	SelectCategory struct{ Category string }

	// SelectProducts sets the line items to the given products, in order.
	SelectProducts struct{ IDs []string }

	// EditLineItem changes one column of the row for Product.
	EditLineItem struct {
		Product string
		Field   LineField
		Value   string
	}

	SetInstallation struct{ Installation InstallationDraft }

	SelectRelated   struct{ IDs []string }
	SelectSuggested struct{ IDs []string }

	// EditCrossSellSpec overrides the specification of one cross-sell row.
	EditCrossSellSpec struct {
		List          CrossSellList
		Product       string
		Specification string
	}

	SetGST struct {
		Enabled    bool
		Percentage float64
	}

	// ApplyDefaults fills empty free-text sections from the tenant's
	// default message. It does nothing while editing.
	ApplyDefaults struct{ Message crmsdk.DefaultMessage }

	// SetCatalog replaces the reference data.
	SetCatalog struct{ Catalog Catalog }

	Next struct{}
	Back struct{}
	GoTo struct{ Step Step }
)

// Reduce returns the state after a. s is not modified.
func Reduce(s State, a Action) State {
	s.Draft = cloneDraft(s.Draft)
	return a.reduce(s)
}

// Apply reduces every action in order.
func Apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func cloneDraft(d Draft) Draft {
	d.Lines = slices.Clone(d.Lines)
	d.Related = slices.Clone(d.Related)
	d.Suggested = slices.Clone(d.Suggested)
	return d
}

func (a SetHeader) reduce(s State) State {
	s.Draft.Title = a.Title
	s.Draft.Customer = a.Customer
	s.Draft.Subject = a.Subject
	s.Draft.FormalMessage = a.FormalMessage
	return s
}

func (a SetText) reduce(s State) State {
	if p := s.Draft.text(a.Field); p != nil {
		*p = a.Value
	}
	return s
}

func (a SelectCategory) reduce(s State) State {
	s.CategoryFilter = a.Category
	return s
}

// Rows of products still selected keep their edits; deselected rows go;
// newly selected products get a fresh row seeded from the catalog.
func (a SelectProducts) reduce(s State) State {
	existing := make(map[string]LineRow, len(s.Draft.Lines))
	for _, row := range s.Draft.Lines {
		existing[row.Product] = row
	}

	rows := make([]LineRow, 0, len(a.IDs))
	seen := make(map[string]bool, len(a.IDs))
	for _, id := range a.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if row, ok := existing[id]; ok {
			rows = append(rows, row)
			continue
		}
		p, ok := s.Catalog.Product(id)
		if !ok {
			continue
		}
		rows = append(rows, LineRow{
			Product:       p.ID,
			Title:         p.Title,
			Model:         p.Model,
			Image:         p.Image,
			Specification: p.Specification,
			Quantity:      DefaultQuantity,
			Unit:          p.Unit,
			UnitPrice:     p.Price,
		})
	}

	s.Draft.Lines = rows
	return s
}

func (a EditLineItem) reduce(s State) State {
	for i := range s.Draft.Lines {
		row := &s.Draft.Lines[i]
		if row.Product != a.Product {
			continue
		}
		switch a.Field {
		case LineQuantity:
			row.Quantity = a.Value
		case LineUnit:
			row.Unit = a.Value
		case LineSpecification:
			row.Specification = a.Value
		}
	}
	return s
}

func (a SetInstallation) reduce(s State) State {
	s.Draft.Installation = a.Installation
	return s
}

func (a SelectRelated) reduce(s State) State {
	s.Draft.Related = selectCrossSell(s.Catalog, s.Draft.Related, a.IDs)
	return s
}

func (a SelectSuggested) reduce(s State) State {
	s.Draft.Suggested = selectCrossSell(s.Catalog, s.Draft.Suggested, a.IDs)
	return s
}

// selectCrossSell keeps the first MaxCrossSell distinct ids, preserving
// overrides of rows that stay selected.
func selectCrossSell(cat Catalog, current []CrossSellRow, ids []string) []CrossSellRow {
	existing := make(map[string]CrossSellRow, len(current))
	for _, row := range current {
		existing[row.Product] = row
	}

	rows := make([]CrossSellRow, 0, min(len(ids), MaxCrossSell))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if len(rows) == MaxCrossSell {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		if row, ok := existing[id]; ok {
			rows = append(rows, row)
			continue
		}
		p, ok := cat.Product(id)
		if !ok {
			continue
		}
		rows = append(rows, CrossSellRow{
			Product:       p.ID,
			Title:         p.Title,
			Model:         p.Model,
			Image:         p.Image,
			Specification: p.Specification,
		})
	}
	return rows
}

func (a EditCrossSellSpec) reduce(s State) State {
	rows := s.Draft.Related
	if a.List == Suggested {
		rows = s.Draft.Suggested
	}
	for i := range rows {
		if rows[i].Product == a.Product {
			rows[i].Specification = a.Specification
		}
	}
	return s
}

func (a SetGST) reduce(s State) State {
	s.Draft.GST = a.Enabled
	if a.Percentage >= 0 {
		s.Draft.GSTPercentage = a.Percentage
	}
	return s
}

func (a ApplyDefaults) reduce(s State) State {
	if s.Editing() {
		return s
	}

	m := a.Message
	fill := func(dst *string, src string) {
		if richtext.IsBlank(*dst) && !richtext.IsBlank(src) {
			*dst = src
		}
	}
	fill(&s.Draft.FormalMessage, m.FormalMessage)
	fill(&s.Draft.Notes, m.Notes)
	fill(&s.Draft.BillingDetails, m.BillingDetails)
	fill(&s.Draft.Supply, m.Supply)
	fill(&s.Draft.InstallationAndCommissioning, m.InstallationAndCommissioning)
	fill(&s.Draft.TermsAndConditions, m.TermsAndConditions)
	fill(&s.Draft.Signature, m.Signature)
	return s
}

func (a SetCatalog) reduce(s State) State {
	s.Catalog = a.Catalog
	return s
}

func (Next) reduce(s State) State {
	if s.Step < StepCrossSell {
		s.Step++
	}
	return s
}

func (Back) reduce(s State) State {
	if s.Step > StepHeader {
		s.Step--
	}
	return s
}

func (a GoTo) reduce(s State) State {
	if a.Step >= StepHeader && a.Step <= StepCrossSell {
		s.Step = a.Step
	}
	return s
}
