package quotation_test

import (
	"fmt"
	"testing"

	"github.com/aussiebroadwan/backoffice/internal/console/quotation"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
	"github.com/stretchr/testify/require"
)

func testCatalog() quotation.Catalog {
	var products []crmsdk.Product
	for i := 1; i <= 8; i++ {
		category := "mixers"
		if i%2 == 0 {
			category = "drills"
		}
		products = append(products, crmsdk.Product{
			ID:            fmt.Sprintf("p%d", i),
			Title:         fmt.Sprintf("Product %d", i),
			Model:         fmt.Sprintf("M-%d", i),
			Category:      category,
			Specification: fmt.Sprintf("Spec %d", i),
			Price:         float64(i * 100),
			Unit:          "pcs",
		})
	}
	products[4].Price = 500

	return quotation.Catalog{
		Products: products,
		Customers: []crmsdk.Customer{
			{ID: "c1", Name: "Acme Foods", CompanyCode: "ACME"},
			{ID: "c2", Name: "Globex", CompanyCode: "GLX"},
		},
	}
}

// completeDraft returns a state that passes validation with one line item.
func completeDraft(t *testing.T) quotation.State {
	t.Helper()

	return quotation.Apply(quotation.New(testCatalog()),
		quotation.SetHeader{Title: "Q1", Customer: "c1", Subject: "Mixer supply", FormalMessage: "<p>Dear Sir,</p>"},
		quotation.SelectProducts{IDs: []string{"p5"}},
		quotation.EditLineItem{Product: "p5", Field: quotation.LineQuantity, Value: "2"},
		quotation.SetText{Field: quotation.FieldNotes, Value: "<p>Notes</p>"},
		quotation.SetText{Field: quotation.FieldBillingDetails, Value: "<p>50% advance</p>"},
		quotation.SetText{Field: quotation.FieldSupply, Value: "4 weeks"},
		quotation.SetText{Field: quotation.FieldInstallationAndCommissioning, Value: "On site"},
		quotation.SetText{Field: quotation.FieldTermsAndConditions, Value: "<p>Standard terms</p>"},
	)
}

func productIDs(rows []quotation.LineRow) []string {
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.Product)
	}
	return ids
}

func TestStepNavigation(t *testing.T) {
	t.Parallel()

	s := quotation.New(testCatalog())
	require.Equal(t, quotation.StepHeader, s.Step)

	s = quotation.Reduce(s, quotation.Back{})
	require.Equal(t, quotation.StepHeader, s.Step)

	for range 10 {
		s = quotation.Reduce(s, quotation.Next{})
	}
	require.Equal(t, quotation.StepCrossSell, s.Step)

	s = quotation.Reduce(s, quotation.GoTo{Step: quotation.StepTerms})
	require.Equal(t, quotation.StepTerms, s.Step)

	s = quotation.Reduce(s, quotation.GoTo{Step: 9})
	require.Equal(t, quotation.StepTerms, s.Step)
}

func TestPickerOptions(t *testing.T) {
	t.Parallel()

	s := quotation.New(testCatalog())
	require.Len(t, quotation.PickerOptions(s), 8)

	s = quotation.Reduce(s, quotation.SelectCategory{Category: "drills"})
	opts := quotation.PickerOptions(s)
	require.Len(t, opts, 4)
	for _, p := range opts {
		require.Equal(t, "drills", p.Category)
	}

	s = quotation.Reduce(s, quotation.SelectCategory{})
	require.Len(t, quotation.PickerOptions(s), 8)
}

func TestSelectProductsPreservesEdits(t *testing.T) {
	t.Parallel()

	s := quotation.Apply(quotation.New(testCatalog()),
		quotation.SelectProducts{IDs: []string{"p1", "p2", "p3"}},
		quotation.EditLineItem{Product: "p1", Field: quotation.LineQuantity, Value: "4"},
		quotation.EditLineItem{Product: "p3", Field: quotation.LineUnit, Value: "sets"},
		quotation.EditLineItem{Product: "p3", Field: quotation.LineSpecification, Value: "Custom"},
	)

	row := s.Draft.Lines[1]
	require.Equal(t, quotation.DefaultQuantity, row.Quantity)
	require.Equal(t, "pcs", row.Unit)
	require.Equal(t, "Spec 2", row.Specification)
	require.Equal(t, 200.0, row.UnitPrice)

	// Deselect p2 and add p4.
	s = quotation.Reduce(s, quotation.SelectProducts{IDs: []string{"p1", "p3", "p4"}})
	require.Equal(t, []string{"p1", "p3", "p4"}, productIDs(s.Draft.Lines))
	require.Equal(t, "4", s.Draft.Lines[0].Quantity)
	require.Equal(t, "sets", s.Draft.Lines[1].Unit)
	require.Equal(t, "Custom", s.Draft.Lines[1].Specification)
	require.Equal(t, quotation.DefaultQuantity, s.Draft.Lines[2].Quantity)

	// Unknown and duplicate ids are ignored.
	s = quotation.Reduce(s, quotation.SelectProducts{IDs: []string{"p3", "ghost", "p3"}})
	require.Equal(t, []string{"p3"}, productIDs(s.Draft.Lines))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	before := quotation.Reduce(quotation.New(testCatalog()), quotation.SelectProducts{IDs: []string{"p1"}})
	after := quotation.Reduce(before, quotation.EditLineItem{Product: "p1", Field: quotation.LineQuantity, Value: "9"})

	require.Equal(t, quotation.DefaultQuantity, before.Draft.Lines[0].Quantity)
	require.Equal(t, "9", after.Draft.Lines[0].Quantity)
}

func TestCrossSellCappedAtFive(t *testing.T) {
	t.Parallel()

	all := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	s := quotation.Apply(quotation.New(testCatalog()),
		quotation.SelectRelated{IDs: all},
		quotation.SelectSuggested{IDs: all[2:]},
	)
	require.Len(t, s.Draft.Related, quotation.MaxCrossSell)
	require.Len(t, s.Draft.Suggested, quotation.MaxCrossSell)
	require.Equal(t, "p1", s.Draft.Related[0].Product)
	require.Equal(t, "p3", s.Draft.Suggested[0].Product)

	s = quotation.Reduce(s, quotation.EditCrossSellSpec{List: quotation.Related, Product: "p2", Specification: "Override"})
	require.Equal(t, "Override", s.Draft.Related[1].Specification)
	require.Equal(t, "Spec 4", s.Draft.Suggested[1].Specification, "lists are independent")

	s = quotation.Reduce(s, quotation.SelectRelated{IDs: []string{"p8", "p2"}})
	require.Len(t, s.Draft.Related, 2)
	require.Equal(t, "Override", s.Draft.Related[1].Specification)
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	msg := crmsdk.DefaultMessage{
		ID:                 "dm1",
		FormalMessage:      "<p>Dear customer</p>",
		Notes:              "<p>Default notes</p>",
		TermsAndConditions: "<p>Default terms</p>",
		Supply:             "Default supply",
	}

	s := quotation.Apply(quotation.New(testCatalog()),
		quotation.SetText{Field: quotation.FieldNotes, Value: "<p>Mine</p>"},
		quotation.SetText{Field: quotation.FieldTermsAndConditions, Value: "<p>&nbsp;</p>"},
		quotation.ApplyDefaults{Message: msg},
	)
	require.Equal(t, "<p>Dear customer</p>", s.Draft.FormalMessage)
	require.Equal(t, "<p>Mine</p>", s.Draft.Notes)
	require.Equal(t, "<p>Default terms</p>", s.Draft.TermsAndConditions)
	require.Equal(t, "Default supply", s.Draft.Supply)

	editing := quotation.Hydrate(crmsdk.Quotation{ID: "q1"}, testCatalog())
	editing = quotation.Reduce(editing, quotation.ApplyDefaults{Message: msg})
	require.Empty(t, editing.Draft.FormalMessage)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	missing := quotation.Validate(quotation.New(testCatalog()).Draft)
	require.Equal(t, []string{
		"title", "customer", "subject", "formalMessage", "products",
		"notes", "billingDetails", "supply", "installationAndCommissioning", "termsAndConditions",
	}, missing)

	require.Empty(t, quotation.Validate(completeDraft(t).Draft))

	s := quotation.Reduce(completeDraft(t), quotation.SetText{Field: quotation.FieldFormalMessage, Value: "<p><br></p>"})
	require.Equal(t, []string{"formalMessage"}, quotation.Validate(s.Draft))
}

func TestAssembleTotal(t *testing.T) {
	t.Parallel()

	s := completeDraft(t)

	in, err := quotation.Assemble(s.Draft, s.Catalog, "QTN-1")
	require.NoError(t, err)
	require.Equal(t, "Q1", in.Title)
	require.Equal(t, "QTN-1", in.QuotationNumber)
	require.Len(t, in.Products, 1)
	require.Equal(t, crmsdk.LineItem{
		Product:       "p5",
		Title:         "Product 5",
		Model:         "M-5",
		Specification: "Spec 5",
		Quantity:      2,
		Unit:          "pcs",
		UnitPrice:     500,
		Total:         1000,
	}, in.Products[0])
	require.Nil(t, in.MachineInstallation)
	require.Nil(t, in.RelatedProducts)
	require.Nil(t, in.SuggestedProducts)
	require.Equal(t, 1000.0, in.TotalAmount)

	// GST never changes the total.
	withGST := quotation.Reduce(s, quotation.SetGST{Enabled: true, Percentage: 18})
	in, err = quotation.Assemble(withGST.Draft, withGST.Catalog, "QTN-1")
	require.NoError(t, err)
	require.Equal(t, 1000.0, in.TotalAmount)
	require.True(t, in.GST)
	require.Equal(t, 18.0, in.GSTPercentage)

	totals := quotation.ComputeTotals(withGST.Draft, withGST.Catalog)
	require.Equal(t, quotation.Totals{Subtotal: 1000, Total: 1000, GST: 180}, totals)
}

func TestAssembleInstallationAndQuantities(t *testing.T) {
	t.Parallel()

	s := quotation.Apply(completeDraft(t),
		quotation.SelectProducts{IDs: []string{"p5", "p1"}},
		quotation.EditLineItem{Product: "p1", Field: quotation.LineQuantity, Value: "lots"},
		quotation.EditLineItem{Product: "p5", Field: quotation.LineSpecification, Value: "  "},
		quotation.SetInstallation{Installation: quotation.InstallationDraft{Quantity: "1", UnitPrice: "250"}},
	)

	in, err := quotation.Assemble(s.Draft, s.Catalog, "QTN-2")
	require.NoError(t, err)
	require.Equal(t, 0, in.Products[1].Quantity, "unparseable quantity counts as zero")
	require.Equal(t, "Spec 5", in.Products[0].Specification, "blank override falls back to the product")
	require.Equal(t, &crmsdk.Installation{Quantity: 1, UnitPrice: 250, Total: 250}, in.MachineInstallation)
	require.Equal(t, 1250.0, in.TotalAmount)

	s = quotation.Reduce(s, quotation.SetInstallation{Installation: quotation.InstallationDraft{Unit: "job", Total: "300"}})
	in, err = quotation.Assemble(s.Draft, s.Catalog, "QTN-2")
	require.NoError(t, err)
	require.Equal(t, 300.0, in.MachineInstallation.Total)
	require.Equal(t, 1300.0, in.TotalAmount)
}

func TestAssembleQuantityPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  int
		total float64
	}{
		{"2", 2, 1000},
		{" 4 ", 4, 2000},
		{"2.5", 2, 1000},
		{"2.0", 2, 1000},
		{"3 pcs", 3, 1500},
		{"+3", 3, 1500},
		{"-3", 0, 0},
		{"lots", 0, 0},
		{"", 0, 0},
		{"99999999999999999999", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			s := quotation.Reduce(completeDraft(t),
				quotation.EditLineItem{Product: "p5", Field: quotation.LineQuantity, Value: tt.in})

			in, err := quotation.Assemble(s.Draft, s.Catalog, "QTN-3")
			require.NoError(t, err)
			require.Equal(t, tt.want, in.Products[0].Quantity)
			require.Equal(t, tt.total, in.Products[0].Total)
			require.Equal(t, tt.total, in.TotalAmount)
		})
	}
}

func TestAssembleRejectsIncompleteDraft(t *testing.T) {
	t.Parallel()

	s := quotation.Reduce(completeDraft(t), quotation.SelectProducts{})

	_, err := quotation.Assemble(s.Draft, s.Catalog, "QTN-3")
	var verr *quotation.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"products"}, verr.Missing)
	require.Contains(t, err.Error(), "products")
}

func TestHydrate(t *testing.T) {
	t.Parallel()

	q := crmsdk.Quotation{
		ID: "q1",
		QuotationInput: crmsdk.QuotationInput{
			QuotationNumber: "QTN-OLD",
			Title:           "Existing",
			Customer:        "c2",
			Products: []crmsdk.LineItem{
				{Product: "p2", Title: "Old title", Quantity: 3, Unit: "box", UnitPrice: 150, Specification: "Edited"},
				{Product: "gone", Title: "Retired", Model: "R-1", Quantity: 1, UnitPrice: 999},
			},
			MachineInstallation: &crmsdk.Installation{Quantity: 1, Unit: "job", UnitPrice: 200.5, Total: 200.5},
			RelatedProducts:     []crmsdk.CrossSellItem{{Product: "p1", Specification: "Rel"}},
			GST:                 true,
			GSTPercentage:       12,
		},
	}

	s := quotation.Hydrate(q, testCatalog())
	require.True(t, s.Editing())
	require.Equal(t, "q1", s.EditingID)
	require.Equal(t, quotation.StepHeader, s.Step)
	require.Equal(t, "QTN-OLD", s.Draft.QuotationNumber)

	require.Len(t, s.Draft.Lines, 2)
	require.Equal(t, quotation.LineRow{
		Product: "p2", Title: "Product 2", Model: "M-2", Specification: "Edited",
		Quantity: "3", Unit: "box", UnitPrice: 200,
	}, s.Draft.Lines[0])
	require.True(t, s.Draft.Lines[1].Orphaned)
	require.Equal(t, "Retired", s.Draft.Lines[1].Title)

	require.Equal(t, quotation.InstallationDraft{Quantity: "1", Unit: "job", UnitPrice: "200.5", Total: "200.5"}, s.Draft.Installation)
	require.Equal(t, "Rel", s.Draft.Related[0].Specification)
	require.Equal(t, 12.0, s.Draft.GSTPercentage)

	totals := quotation.ComputeTotals(s.Draft, s.Catalog)
	require.Equal(t, 3*200.0+999, totals.Subtotal)
	require.Equal(t, 200.5, totals.Installation)
}

func TestNewDraftDefaults(t *testing.T) {
	t.Parallel()

	s := quotation.New(testCatalog())
	require.Equal(t, quotation.DefaultGSTPercentage, s.Draft.GSTPercentage)
	require.False(t, s.Draft.GST)
	require.False(t, s.Editing())
}

func TestCatalogCustomers(t *testing.T) {
	t.Parallel()

	cat := testCatalog()
	require.Len(t, cat.SearchCustomers("acme"), 1)
	require.Len(t, cat.SearchCustomers("glx"), 1)
	require.Len(t, cat.SearchCustomers(""), 2)

	id, ok := cat.ResolveCustomer("GLX")
	require.True(t, ok)
	require.Equal(t, "c2", id)

	_, ok = cat.ResolveCustomer("nobody")
	require.False(t, ok)
}
