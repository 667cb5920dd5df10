package crmsdk

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is returned when a response decodes but does not match
// the shape the console relies on.
var ErrInvalidResponse = errors.New("crmsdk: invalid response")

// validator is implemented by every response type. Responses are checked
// once at the client boundary so view code can trust their shape.
type validator interface {
	Validate() error
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, fmt.Sprintf(format, args...))
}

func (u User) Validate() error {
	if !u.HasIdentity() {
		return invalid("user missing id, email or role")
	}
	if !u.Role.Known() {
		return invalid("user %s has unknown role %q", u.ID, u.Role)
	}
	return nil
}

func (r LoginResponse) Validate() error {
	if r.Token == "" {
		return invalid("login response missing token")
	}
	return r.User.Validate()
}

func (p Product) Validate() error {
	if p.ID == "" || p.Title == "" {
		return invalid("product missing id or title")
	}
	if p.Price < 0 {
		return invalid("product %s has negative price", p.ID)
	}
	return nil
}

func (c Customer) Validate() error {
	if c.ID == "" || c.Name == "" {
		return invalid("customer missing id or name")
	}
	return nil
}

func (c Category) Validate() error {
	if c.ID == "" || c.Name == "" {
		return invalid("category missing id or name")
	}
	return nil
}

func (m ProductModel) Validate() error {
	if m.ID == "" || m.Name == "" {
		return invalid("model missing id or name")
	}
	return nil
}

func (q Quotation) Validate() error {
	if q.ID == "" {
		return invalid("quotation missing id")
	}
	for i, item := range q.Products {
		if item.Product == "" {
			return invalid("quotation %s line %d missing product", q.ID, i)
		}
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return invalid("quotation %s line %d has negative quantity or price", q.ID, i)
		}
	}
	if q.ConversionStatus != "" && !q.ConversionStatus.Known() {
		return invalid("quotation %s has unknown conversion status %q", q.ID, q.ConversionStatus)
	}
	return nil
}

func (m DefaultMessage) Validate() error {
	if m.ID == "" {
		return invalid("default message missing id")
	}
	return nil
}

func (s DashboardStats) Validate() error {
	if s.TotalProducts < 0 || s.TotalClients < 0 || s.TotalUsers < 0 || s.TotalQuotations < 0 {
		return invalid("dashboard statistics contain negative counts")
	}
	return nil
}

func (r UploadResponse) Validate() error {
	if r.Filename == "" {
		return invalid("upload response missing filename")
	}
	return nil
}

// Validate checks the envelope and every item that knows how to validate
// itself.
func (p Page[T]) Validate() error {
	if p.Total < 0 || p.TotalPages < 0 || p.Limit < 0 || p.Page < 0 {
		return invalid("page envelope has negative counters")
	}
	if p.Items == nil {
		return invalid("page envelope missing items")
	}
	for i, item := range p.Items {
		if v, ok := any(item).(validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
