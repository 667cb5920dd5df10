package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/console/nav"
	"github.com/aussiebroadwan/backoffice/internal/console/query"
	"github.com/aussiebroadwan/backoffice/internal/console/quotation"
	"github.com/aussiebroadwan/backoffice/internal/console/view"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

func runQuotation(ctx context.Context, c *cli, args []string) error {
	if len(args) < 1 {
		return errors.New("expected new, edit, show, approve, reject or convert")
	}

	switch args[0] {
	case "new":
		return quotationNew(ctx, c, args[1:])
	case "edit":
		return quotationEdit(ctx, c, args[1:])
	case "show":
		return quotationShow(ctx, c, args[1:])
	case "approve":
		return quotationReview(ctx, c, args[1:], crmsdk.ActionApprove)
	case "reject":
		return quotationReview(ctx, c, args[1:], crmsdk.ActionReject)
	case "convert":
		return quotationConvert(ctx, c, args[1:])
	default:
		return fmt.Errorf("unknown quotation command %q", args[0])
	}
}

// wizardFlags are shared by new and edit.
type wizardFlags struct {
	file      *string
	out       *string
	signature *string
	dryRun    *bool
}

func (c *cli) wizardFlagSet(name string) (*flag.FlagSet, wizardFlags) {
	fs := c.newFlagSet(name)
	return fs, wizardFlags{
		file:      fs.String("file", "", "YAML draft to apply"),
		out:       fs.String("out", "", "Write the resulting draft to this YAML file"),
		signature: fs.String("signature-image", "", "Image to upload and append to the signature"),
		dryRun:    fs.Bool("dry-run", false, "Validate and show totals without saving"),
	}
}

func quotationNew(ctx context.Context, c *cli, args []string) error {
	fs, f := c.wizardFlagSet("quotation new")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(ctx, nav.NewQuotation); err != nil {
		return err
	}

	cat, err := c.app.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	st := quotation.New(cat)

	st, err = c.applyDraftFile(ctx, st, *f.file)
	if err != nil {
		return err
	}

	// Defaults only prefill blank sections. Roles that cannot read them
	// still get to build a quotation.
	if msg, ok, err := quotation.LoadDefaults(ctx, c.app.Hooks.DefaultMessages); err != nil {
		c.app.Notices.Notify(ctx, query.Notice{
			Level:   query.LevelWarning,
			Message: "Default message unavailable: " + crmsdk.UserMessage(err, "request failed"),
		})
	} else if ok {
		st = quotation.Reduce(st, quotation.ApplyDefaults{Message: msg})
	}

	return c.finishWizard(ctx, st, f)
}

func quotationEdit(ctx context.Context, c *cli, args []string) error {
	fs, f := c.wizardFlagSet("quotation edit")
	id := fs.String("id", "", "Quotation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("id is required")
	}
	if err := c.require(ctx, nav.EditPath(*id)); err != nil {
		return err
	}

	q, err := c.app.Hooks.Quotations.Get(ctx, *id)
	if err != nil {
		return err
	}
	cat, err := c.app.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	st := quotation.Hydrate(*q, cat)
	for _, row := range st.Draft.Lines {
		if row.Orphaned {
			fmt.Fprintf(c.stderr, "warning: product %s (%s) is no longer in the catalog\n", row.Product, row.Title)
		}
	}

	if *f.file == "" && *f.signature == "" {
		// Export only.
		*f.dryRun = true
	}
	st, err = c.applyDraftFile(ctx, st, *f.file)
	if err != nil {
		return err
	}

	return c.finishWizard(ctx, st, f)
}

// applyDraftFile replays the draft file at path onto st. Rich-text sections
// pass through the editor so plain paragraphs become markup.
func (c *cli) applyDraftFile(_ context.Context, st quotation.State, path string) (quotation.State, error) {
	if path == "" {
		return st, nil
	}

	fh, err := os.Open(path)
	if err != nil {
		return st, err
	}
	defer fh.Close()

	df, err := quotation.ReadDraftFile(fh)
	if err != nil {
		return st, err
	}
	if df.Customer != "" {
		if _, ok := st.Catalog.ResolveCustomer(df.Customer); !ok {
			return st, fmt.Errorf("unknown customer %q", df.Customer)
		}
	}

	st = quotation.Apply(st, df.Actions(st.Catalog)...)

	d := st.Draft
	return quotation.Apply(st,
		quotation.SetText{Field: quotation.FieldFormalMessage, Value: c.app.Editor.Render(d.FormalMessage, nil)},
		quotation.SetText{Field: quotation.FieldNotes, Value: c.app.Editor.Render(d.Notes, nil)},
		quotation.SetText{Field: quotation.FieldBillingDetails, Value: c.app.Editor.Render(d.BillingDetails, nil)},
		quotation.SetText{Field: quotation.FieldTermsAndConditions, Value: c.app.Editor.Render(d.TermsAndConditions, nil)},
	), nil
}

// finishWizard uploads the signature image, exports, prints totals and
// submits unless this is a dry run.
func (c *cli) finishWizard(ctx context.Context, st quotation.State, f wizardFlags) error {
	if *f.signature != "" {
		img, err := os.Open(*f.signature)
		if err != nil {
			return err
		}
		sig, err := c.app.Editor.InsertImage(ctx, st.Draft.Signature, filepath.Base(*f.signature), img)
		_ = img.Close()
		if err != nil {
			return err
		}
		st = quotation.Reduce(st, quotation.SetText{Field: quotation.FieldSignature, Value: sig})
	}

	if *f.out != "" {
		if err := writeDraft(*f.out, st); err != nil {
			return err
		}
		fmt.Fprintf(c.stderr, "draft written to %s\n", *f.out)
	}

	c.printTotals(st)

	if missing := quotation.Validate(st.Draft); len(missing) > 0 {
		fmt.Fprintf(c.stdout, "missing: %s\n", strings.Join(missing, ", "))
		if *f.dryRun {
			return nil
		}
		return &quotation.ValidationError{Missing: missing}
	}
	if *f.dryRun {
		return nil
	}

	q, err := c.app.Submitter.Submit(ctx, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Saved quotation %s (%s)\n", q.QuotationNumber, q.ID)
	return nil
}

func writeDraft(path string, st quotation.State) error {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := quotation.WriteDraftFile(fh, quotation.Export(st)); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func (c *cli) printTotals(st quotation.State) {
	rows := make([][]string, 0, len(st.Draft.Lines))
	for _, row := range st.Draft.Lines {
		title := row.Title
		if row.Orphaned {
			title += " (removed)"
		}
		rows = append(rows, []string{row.Product, title, row.Quantity, row.Unit, view.Money(row.UnitPrice)})
	}
	_ = view.RenderTable(c.stdout, []string{"PRODUCT", "TITLE", "QTY", "UNIT", "UNIT PRICE"}, rows)

	t := quotation.ComputeTotals(st.Draft, st.Catalog)
	fmt.Fprintf(c.stdout, "subtotal:     %s\n", view.Money(t.Subtotal))
	fmt.Fprintf(c.stdout, "installation: %s\n", view.Money(t.Installation))
	fmt.Fprintf(c.stdout, "total:        %s\n", view.Money(t.Total))
	if st.Draft.GST {
		fmt.Fprintf(c.stdout, "gst %g%%:      %s (not included)\n", st.Draft.GSTPercentage, view.Money(t.GST))
	}
}

func quotationShow(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("quotation show")
	id := fs.String("id", "", "Quotation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("id is required")
	}
	if err := c.require(ctx, nav.Quotations); err != nil {
		return err
	}

	q, err := c.app.Hooks.Quotations.Get(ctx, *id)
	if err != nil {
		return err
	}
	cat, err := c.app.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "%s  %s\nstatus: %s", q.QuotationNumber, q.Title, q.Status)
	if q.ConversionStatus != "" {
		fmt.Fprintf(c.stdout, " / %s", q.ConversionStatus)
	}
	fmt.Fprintln(c.stdout)
	c.printTotals(quotation.Hydrate(*q, cat))
	return nil
}

func quotationReview(ctx context.Context, c *cli, args []string, action crmsdk.StatusAction) error {
	fs := c.newFlagSet("quotation " + string(action))
	id := fs.String("id", "", "Quotation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("id is required")
	}
	if err := c.require(ctx, nav.Quotations); err != nil {
		return err
	}
	if role := c.app.Session.Snapshot().User.Role; role != crmsdk.RoleAdmin {
		return fmt.Errorf("only admins can %s quotations", action)
	}

	q, err := c.app.Hooks.Quotations.SetStatus(ctx, *id, action)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s is now %s\n", q.QuotationNumber, q.Status)
	return nil
}

func quotationConvert(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("quotation convert")
	id := fs.String("id", "", "Quotation id")
	status := fs.String("status", "", "under_development, booked or lost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("id is required")
	}
	cs := crmsdk.ConversionStatus(*status)
	if !cs.Known() {
		return fmt.Errorf("unknown conversion status %q", *status)
	}
	if err := c.require(ctx, nav.Quotations); err != nil {
		return err
	}

	q, err := c.app.Hooks.Quotations.SetConversionStatus(ctx, *id, cs)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s marked %s\n", q.QuotationNumber, q.ConversionStatus)
	return nil
}
