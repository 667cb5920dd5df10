package quotation

import (
	"strconv"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// Hydrate opens the wizard on an existing quotation. Each stored product
// reference is resolved against cat; a reference the catalog no longer
// holds keeps the row with its stored display fields and marks it
// Orphaned.
func Hydrate(q crmsdk.Quotation, cat Catalog) State {
	s := New(cat)
	s.EditingID = q.ID

	d := &s.Draft
	d.QuotationNumber = q.QuotationNumber
	d.Title = q.Title
	d.Customer = q.Customer
	d.Subject = q.Subject
	d.FormalMessage = q.FormalMessage
	d.Notes = q.Notes
	d.BillingDetails = q.BillingDetails
	d.Supply = q.Supply
	d.InstallationAndCommissioning = q.InstallationAndCommissioning
	d.TermsAndConditions = q.TermsAndConditions
	d.Signature = q.Signature
	d.GST = q.GST
	if q.GSTPercentage > 0 || q.GST {
		d.GSTPercentage = q.GSTPercentage
	}

	for _, item := range q.Products {
		row := LineRow{
			Product:       item.Product,
			Title:         item.Title,
			Model:         item.Model,
			Image:         item.Image,
			Specification: item.Specification,
			Quantity:      strconv.Itoa(item.Quantity),
			Unit:          item.Unit,
			UnitPrice:     item.UnitPrice,
		}
		if p, ok := cat.Product(item.Product); ok {
			row.Title, row.Model, row.Image = p.Title, p.Model, p.Image
			row.UnitPrice = p.Price
			if row.Unit == "" {
				row.Unit = p.Unit
			}
		} else {
			row.Orphaned = true
		}
		d.Lines = append(d.Lines, row)
	}

	if inst := q.MachineInstallation; inst != nil {
		d.Installation = InstallationDraft{
			Quantity:  strconv.Itoa(inst.Quantity),
			Unit:      inst.Unit,
			UnitPrice: formatAmount(inst.UnitPrice),
			Total:     formatAmount(inst.Total),
		}
	}

	d.Related = hydrateCrossSell(q.RelatedProducts, cat)
	d.Suggested = hydrateCrossSell(q.SuggestedProducts, cat)

	return s
}

func hydrateCrossSell(items []crmsdk.CrossSellItem, cat Catalog) []CrossSellRow {
	var rows []CrossSellRow
	for _, item := range items {
		if len(rows) == MaxCrossSell {
			break
		}
		row := CrossSellRow{
			Product:       item.Product,
			Title:         item.Title,
			Model:         item.Model,
			Image:         item.Image,
			Specification: item.Specification,
		}
		if p, ok := cat.Product(item.Product); ok {
			row.Title, row.Model, row.Image = p.Title, p.Model, p.Image
		} else {
			row.Orphaned = true
		}
		rows = append(rows, row)
	}
	return rows
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
