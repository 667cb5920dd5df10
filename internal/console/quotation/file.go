package quotation

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DraftFile is the on-disk form of a draft, edited by hand and replayed
// through the reducer.
type DraftFile struct {
	Title         string `yaml:"title"`
	Customer      string `yaml:"customer"`
	Subject       string `yaml:"subject"`
	FormalMessage string `yaml:"formalMessage"`

	Category string         `yaml:"category,omitempty"`
	Products []FileLineItem `yaml:"products"`

	Installation *FileInstallation `yaml:"installation,omitempty"`

	Notes                        string `yaml:"notes"`
	BillingDetails               string `yaml:"billingDetails"`
	Supply                       string `yaml:"supply"`
	InstallationAndCommissioning string `yaml:"installationAndCommissioning"`
	TermsAndConditions           string `yaml:"termsAndConditions"`
	Signature                    string `yaml:"signature,omitempty"`

	Related   []FileCrossSell `yaml:"related,omitempty"`
	Suggested []FileCrossSell `yaml:"suggested,omitempty"`

	GST           *bool    `yaml:"gst,omitempty"`
	GSTPercentage *float64 `yaml:"gstPercentage,omitempty"`
}

type FileLineItem struct {
	Product       string `yaml:"product"`
	Quantity      string `yaml:"quantity,omitempty"`
	Unit          string `yaml:"unit,omitempty"`
	Specification string `yaml:"specification,omitempty"`
}

type FileInstallation struct {
	Quantity  string `yaml:"quantity,omitempty"`
	Unit      string `yaml:"unit,omitempty"`
	UnitPrice string `yaml:"unitPrice,omitempty"`
	Total     string `yaml:"total,omitempty"`
}

type FileCrossSell struct {
	Product       string `yaml:"product"`
	Specification string `yaml:"specification,omitempty"`
}

// ReadDraftFile decodes a draft file. Unknown keys are rejected so a typo
// does not silently drop a section.
func ReadDraftFile(r io.Reader) (DraftFile, error) {
	var f DraftFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return DraftFile{}, fmt.Errorf("failed to parse draft file: %w", err)
	}
	return f, nil
}

// WriteDraftFile encodes f as YAML.
func WriteDraftFile(w io.Writer, f DraftFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// Actions replays f as wizard actions. The customer may be given by id,
// company code or name; it is resolved against cat.
func (f DraftFile) Actions(cat Catalog) []Action {
	customer := f.Customer
	if id, ok := cat.ResolveCustomer(customer); ok {
		customer = id
	}

	actions := []Action{
		SetHeader{Title: f.Title, Customer: customer, Subject: f.Subject, FormalMessage: f.FormalMessage},
		SelectCategory{Category: f.Category},
	}

	ids := make([]string, 0, len(f.Products))
	for _, p := range f.Products {
		ids = append(ids, p.Product)
	}
	actions = append(actions, SelectProducts{IDs: ids})
	for _, p := range f.Products {
		if p.Quantity != "" {
			actions = append(actions, EditLineItem{Product: p.Product, Field: LineQuantity, Value: p.Quantity})
		}
		if p.Unit != "" {
			actions = append(actions, EditLineItem{Product: p.Product, Field: LineUnit, Value: p.Unit})
		}
		if p.Specification != "" {
			actions = append(actions, EditLineItem{Product: p.Product, Field: LineSpecification, Value: p.Specification})
		}
	}

	var inst InstallationDraft
	if f.Installation != nil {
		inst = InstallationDraft(*f.Installation)
	}
	actions = append(actions, SetInstallation{Installation: inst})

	for field, value := range map[Field]string{
		FieldNotes:                        f.Notes,
		FieldBillingDetails:               f.BillingDetails,
		FieldSupply:                       f.Supply,
		FieldInstallationAndCommissioning: f.InstallationAndCommissioning,
		FieldTermsAndConditions:           f.TermsAndConditions,
		FieldSignature:                    f.Signature,
	} {
		actions = append(actions, SetText{Field: field, Value: value})
	}

	actions = append(actions, crossSellActions(Related, f.Related)...)
	actions = append(actions, crossSellActions(Suggested, f.Suggested)...)

	if f.GST != nil || f.GSTPercentage != nil {
		gst := SetGST{Percentage: -1}
		if f.GST != nil {
			gst.Enabled = *f.GST
		}
		if f.GSTPercentage != nil {
			gst.Percentage = *f.GSTPercentage
		}
		actions = append(actions, gst)
	}

	return actions
}

func crossSellActions(list CrossSellList, rows []FileCrossSell) []Action {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Product)
	}

	var sel Action = SelectRelated{IDs: ids}
	if list == Suggested {
		sel = SelectSuggested{IDs: ids}
	}

	actions := []Action{sel}
	for _, r := range rows {
		if r.Specification != "" {
			actions = append(actions, EditCrossSellSpec{List: list, Product: r.Product, Specification: r.Specification})
		}
	}
	return actions
}

// Export writes the draft of s back into file form.
func Export(s State) DraftFile {
	d := s.Draft
	f := DraftFile{
		Title:                        d.Title,
		Customer:                     d.Customer,
		Subject:                      d.Subject,
		FormalMessage:                d.FormalMessage,
		Category:                     s.CategoryFilter,
		Notes:                        d.Notes,
		BillingDetails:               d.BillingDetails,
		Supply:                       d.Supply,
		InstallationAndCommissioning: d.InstallationAndCommissioning,
		TermsAndConditions:           d.TermsAndConditions,
		Signature:                    d.Signature,
		GST:                          &d.GST,
		GSTPercentage:                &d.GSTPercentage,
	}

	for _, row := range d.Lines {
		f.Products = append(f.Products, FileLineItem{
			Product:       row.Product,
			Quantity:      row.Quantity,
			Unit:          row.Unit,
			Specification: row.Specification,
		})
	}
	if !d.Installation.IsEmpty() {
		inst := FileInstallation(d.Installation)
		f.Installation = &inst
	}
	for _, row := range d.Related {
		f.Related = append(f.Related, FileCrossSell{Product: row.Product, Specification: row.Specification})
	}
	for _, row := range d.Suggested {
		f.Suggested = append(f.Suggested, FileCrossSell{Product: row.Product, Specification: row.Specification})
	}
	return f
}
