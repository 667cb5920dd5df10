package crmsdk

import "context"

// Customers live under /api/clients on the server.
const customersPath = "/api/clients"

// ListCustomers returns a page of customers. Search matches name or company
// code.
func (c *Client) ListCustomers(ctx context.Context, params ListParams) (*Page[Customer], error) {
	return list[Customer](ctx, c, customersPath, params)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return get[Customer](ctx, c, customersPath, id)
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	return create[Customer](ctx, c, customersPath, in)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*Customer, error) {
	return update[Customer](ctx, c, customersPath, id, in)
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return remove(ctx, c, customersPath, id)
}
