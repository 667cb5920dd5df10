package quotation

import (
	"math"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// parseQuantity reads the leading integer of a typed quantity, so "2.5"
// and "3 pcs" count as 2 and 3. No leading digits, or a negative value,
// counts as zero.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// lineItems builds the submitted rows. Rows whose product is still in the
// catalog take its current display fields and price; orphaned rows use
// their snapshot.
func lineItems(d Draft, cat Catalog) []crmsdk.LineItem {
	items := make([]crmsdk.LineItem, 0, len(d.Lines))
	for _, row := range d.Lines {
		item := crmsdk.LineItem{
			Product:   row.Product,
			Title:     row.Title,
			Model:     row.Model,
			Image:     row.Image,
			Quantity:  parseQuantity(row.Quantity),
			Unit:      row.Unit,
			UnitPrice: row.UnitPrice,
		}

		defaultSpec := ""
		if p, ok := cat.Product(row.Product); ok {
			item.Title, item.Model, item.Image = p.Title, p.Model, p.Image
			item.UnitPrice = p.Price
			defaultSpec = p.Specification
			if item.Unit == "" {
				item.Unit = p.Unit
			}
		}

		item.Specification = row.Specification
		if strings.TrimSpace(item.Specification) == "" {
			item.Specification = defaultSpec
		}

		item.Total = round2(float64(item.Quantity) * item.UnitPrice)
		items = append(items, item)
	}
	return items
}

// installation returns nil when every sub-field is blank. An empty total
// is computed from quantity and unit price.
func installation(d Draft) *crmsdk.Installation {
	in := d.Installation
	if in.IsEmpty() {
		return nil
	}

	out := &crmsdk.Installation{
		Quantity:  parseQuantity(in.Quantity),
		Unit:      strings.TrimSpace(in.Unit),
		UnitPrice: parseAmount(in.UnitPrice),
	}
	if strings.TrimSpace(in.Total) != "" {
		out.Total = parseAmount(in.Total)
	} else {
		out.Total = round2(float64(out.Quantity) * out.UnitPrice)
	}
	return out
}

func crossSell(rows []CrossSellRow, cat Catalog) []crmsdk.CrossSellItem {
	if len(rows) == 0 {
		return nil
	}
	items := make([]crmsdk.CrossSellItem, 0, len(rows))
	for _, row := range rows {
		item := crmsdk.CrossSellItem{
			Product:       row.Product,
			Title:         row.Title,
			Model:         row.Model,
			Image:         row.Image,
			Specification: row.Specification,
		}
		if p, ok := cat.Product(row.Product); ok {
			item.Title, item.Model, item.Image = p.Title, p.Model, p.Image
			if strings.TrimSpace(item.Specification) == "" {
				item.Specification = p.Specification
			}
		}
		items = append(items, item)
	}
	return items
}

// Totals are the amounts shown before submission.
type Totals struct {
	Subtotal     float64
	Installation float64
	Total        float64

	// GST is informational. It is not part of Total.
	GST float64
}

// ComputeTotals sums the draft the same way Assemble does.
func ComputeTotals(d Draft, cat Catalog) Totals {
	var t Totals
	for _, item := range lineItems(d, cat) {
		t.Subtotal += item.Total
	}
	if inst := installation(d); inst != nil {
		t.Installation = inst.Total
	}
	t.Subtotal = round2(t.Subtotal)
	t.Total = round2(t.Subtotal + t.Installation)
	if d.GST {
		t.GST = round2(t.Total * d.GSTPercentage / 100)
	}
	return t
}

// Assemble turns a complete draft into the document sent to the API. The
// total is the sum of line totals plus the installation total; GST travels
// as separate fields and is never folded in.
func Assemble(d Draft, cat Catalog, ref string) (crmsdk.QuotationInput, error) {
	if missing := Validate(d); len(missing) > 0 {
		return crmsdk.QuotationInput{}, &ValidationError{Missing: missing}
	}

	items := lineItems(d, cat)
	inst := installation(d)

	total := 0.0
	for _, item := range items {
		total += item.Total
	}
	if inst != nil {
		total += inst.Total
	}

	return crmsdk.QuotationInput{
		QuotationNumber:              ref,
		Title:                        strings.TrimSpace(d.Title),
		Customer:                     d.Customer,
		Subject:                      strings.TrimSpace(d.Subject),
		FormalMessage:                d.FormalMessage,
		Products:                     items,
		MachineInstallation:          inst,
		Notes:                        d.Notes,
		BillingDetails:               d.BillingDetails,
		Supply:                       d.Supply,
		InstallationAndCommissioning: d.InstallationAndCommissioning,
		TermsAndConditions:           d.TermsAndConditions,
		Signature:                    d.Signature,
		RelatedProducts:              crossSell(d.Related, cat),
		SuggestedProducts:            crossSell(d.Suggested, cat),
		GST:                          d.GST,
		GSTPercentage:                d.GSTPercentage,
		TotalAmount:                  round2(total),
	}, nil
}
