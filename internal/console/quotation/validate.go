package quotation

import (
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/console/richtext"
)

// FieldProducts is reported when the draft has no line items.
const FieldProducts = "products"

// ValidationError lists the required fields a draft is missing, in form
// order.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

type requirement struct {
	name  string
	blank func(Draft) bool
}

func plain(f Field) requirement {
	return requirement{string(f), func(d Draft) bool { return strings.TrimSpace(*d.text(f)) == "" }}
}

func rich(f Field) requirement {
	return requirement{string(f), func(d Draft) bool { return richtext.IsBlank(*d.text(f)) }}
}

var requirements = []requirement{
	plain(FieldTitle),
	plain(FieldCustomer),
	plain(FieldSubject),
	rich(FieldFormalMessage),
	{FieldProducts, func(d Draft) bool { return len(d.Lines) == 0 }},
	rich(FieldNotes),
	rich(FieldBillingDetails),
	plain(FieldSupply),
	plain(FieldInstallationAndCommissioning),
	rich(FieldTermsAndConditions),
}

// Validate returns the names of required fields that are empty. A nil
// result means the draft may be submitted.
func Validate(d Draft) []string {
	var missing []string
	for _, r := range requirements {
		if r.blank(d) {
			missing = append(missing, r.name)
		}
	}
	return missing
}
