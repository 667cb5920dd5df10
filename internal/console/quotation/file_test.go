package quotation_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aussiebroadwan/backoffice/internal/console/quotation"
	"github.com/stretchr/testify/require"
)

func TestDraftFileRoundTrip(t *testing.T) {
	t.Parallel()

	src := quotation.Apply(completeDraft(t),
		quotation.SelectCategory{Category: "mixers"},
		quotation.SetInstallation{Installation: quotation.InstallationDraft{Quantity: "1", Unit: "job", UnitPrice: "250"}},
		quotation.SelectRelated{IDs: []string{"p1", "p2"}},
		quotation.EditCrossSellSpec{List: quotation.Related, Product: "p2", Specification: "With stand"},
		quotation.SelectSuggested{IDs: []string{"p7"}},
		quotation.SetGST{Enabled: true, Percentage: 18},
	)

	var buf bytes.Buffer
	require.NoError(t, quotation.WriteDraftFile(&buf, quotation.Export(src)))

	f, err := quotation.ReadDraftFile(&buf)
	require.NoError(t, err)

	cat := testCatalog()
	got := quotation.Apply(quotation.New(cat), f.Actions(cat)...)
	require.Equal(t, src.Draft, got.Draft)
	require.Equal(t, "mixers", got.CategoryFilter)
}

func TestDraftFileHandWritten(t *testing.T) {
	t.Parallel()

	doc := `
title: Q1
customer: acme
subject: Mixer supply
formalMessage: <p>Dear Sir,</p>
products:
  - product: p5
    quantity: 2
  - product: p1
    specification: Stainless
notes: <p>Notes</p>
billingDetails: <p>50% advance</p>
supply: 4 weeks
installationAndCommissioning: On site
termsAndConditions: <p>Standard terms</p>
`
	f, err := quotation.ReadDraftFile(strings.NewReader(doc))
	require.NoError(t, err)

	cat := testCatalog()
	s := quotation.Apply(quotation.New(cat), f.Actions(cat)...)
	require.Equal(t, "c1", s.Draft.Customer)
	require.Equal(t, "2", s.Draft.Lines[0].Quantity)
	require.Equal(t, quotation.DefaultQuantity, s.Draft.Lines[1].Quantity)
	require.Equal(t, "Stainless", s.Draft.Lines[1].Specification)
	require.Equal(t, quotation.DefaultGSTPercentage, s.Draft.GSTPercentage)

	in, err := quotation.Assemble(s.Draft, s.Catalog, "QTN-X")
	require.NoError(t, err)
	require.Equal(t, 1100.0, in.TotalAmount)
}

func TestReadDraftFileRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := quotation.ReadDraftFile(strings.NewReader("title: Q1\nsubjct: typo\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "subjct")
}

func TestReadDraftFileEmpty(t *testing.T) {
	t.Parallel()

	f, err := quotation.ReadDraftFile(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, f.Products)
}
