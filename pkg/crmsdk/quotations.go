package crmsdk

import (
	"context"
	"net/http"
	"net/url"
)

const quotationsPath = "/api/quotations"

// ListQuotations returns a page of quotations. Filters: "status",
// "conversionStatus", "customer".
func (c *Client) ListQuotations(ctx context.Context, params ListParams) (*Page[Quotation], error) {
	return list[Quotation](ctx, c, quotationsPath, params)
}

// GetQuotation fetches one quotation, used to hydrate the builder in edit mode.
func (c *Client) GetQuotation(ctx context.Context, id string) (*Quotation, error) {
	return get[Quotation](ctx, c, quotationsPath, id)
}

// CreateQuotation submits a newly assembled quotation.
func (c *Client) CreateQuotation(ctx context.Context, in QuotationInput) (*Quotation, error) {
	return create[Quotation](ctx, c, quotationsPath, in)
}

// UpdateQuotation resubmits an edited quotation. The server takes updates as
// a POST to the record's URL.
func (c *Client) UpdateQuotation(ctx context.Context, id string, in QuotationInput) (*Quotation, error) {
	return call[Quotation](ctx, c, request{
		method: http.MethodPost,
		path:   quotationsPath + "/" + url.PathEscape(id),
		body:   in,
	})
}

// DeleteQuotation deletes a quotation.
func (c *Client) DeleteQuotation(ctx context.Context, id string) error {
	return remove(ctx, c, quotationsPath, id)
}

// SetQuotationStatus approves or rejects a quotation.
// Requires: admin role
func (c *Client) SetQuotationStatus(ctx context.Context, id string, action StatusAction) (*Quotation, error) {
	return call[Quotation](ctx, c, request{
		method: http.MethodPatch,
		path:   quotationsPath + "/admin/" + url.PathEscape(id) + "/status",
		body:   map[string]StatusAction{"action": action},
	})
}

// SetConversionStatus records the business outcome of a quotation.
func (c *Client) SetConversionStatus(ctx context.Context, id string, status ConversionStatus) (*Quotation, error) {
	return call[Quotation](ctx, c, request{
		method: http.MethodPatch,
		path:   quotationsPath + "/" + url.PathEscape(id) + "/conversion-status",
		body:   map[string]ConversionStatus{"conversionStatus": status},
	})
}
