package quotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/console/nav"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
	"github.com/aussiebroadwan/backoffice/pkg/idx"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

// ReferencePrefix starts every client-generated quotation number.
const ReferencePrefix = "QTN"

// NewReference returns a quotation number for a new quotation. The API
// remains the authority on uniqueness and rejects duplicates.
func NewReference(now time.Time) string {
	return idx.Reference(ReferencePrefix, now)
}

// Store creates and updates quotations.
type Store interface {
	Create(ctx context.Context, in crmsdk.QuotationInput) (*crmsdk.Quotation, error)
	Update(ctx context.Context, id string, in crmsdk.QuotationInput) (*crmsdk.Quotation, error)
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// SubmitError is a submission the API refused or never answered.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// FailureMessage picks the text shown for a failed submission: the API's
// structured error, then its message, then one derived from the status.
// A request that got no response says so.
func FailureMessage(err error) string {
	var netErr *crmsdk.NetworkError
	if errors.As(err, &netErr) {
		return crmsdk.NetworkMessage
	}

	var apiErr *crmsdk.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.ServerMessage(); msg != "" {
			return msg
		}
		if text := http.StatusText(apiErr.StatusCode); text != "" {
			return fmt.Sprintf("Request failed with status %d (%s)", apiErr.StatusCode, text)
		}
		return fmt.Sprintf("Request failed with status %d", apiErr.StatusCode)
	}

	return "Failed to save quotation. Please try again."
}

// Submitter sends a finished wizard to the API.
type Submitter struct {
	Store     Store
	Navigator Navigator
	Logger    *slog.Logger

	// Now stamps new references. Defaults to time.Now.
	Now func() time.Time
}

// Submit validates, assembles and saves the draft, then navigates to the
// quotation list. An invalid draft returns *ValidationError without any
// request being made; an API failure returns *SubmitError.
func (s *Submitter) Submit(ctx context.Context, st State) (*crmsdk.Quotation, error) {
	if missing := Validate(st.Draft); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	ref := st.Draft.QuotationNumber
	if ref == "" {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		ref = NewReference(now())
	}

	ctx = slogx.With(ctx, s.Logger, "reference", ref)
	logger := slogx.FromContext(ctx)

	in, err := Assemble(st.Draft, st.Catalog, ref)
	if err != nil {
		return nil, err
	}

	var q *crmsdk.Quotation
	if st.Editing() {
		q, err = s.Store.Update(ctx, st.EditingID, in)
	} else {
		q, err = s.Store.Create(ctx, in)
	}
	if err != nil {
		logger.Warn("quotation submit failed", "editing", st.Editing(), "error", err)
		return nil, &SubmitError{Message: FailureMessage(err), Err: err}
	}

	logger.Info("quotation saved", "id", q.ID, "total", in.TotalAmount)
	s.Navigator.Navigate(ctx, nav.Quotations)
	return q, nil
}
