package crmsdk

import "context"

const productsPath = "/api/products"

// ListProducts returns a page of products. Filters: "category".
func (c *Client) ListProducts(ctx context.Context, params ListParams) (*Page[Product], error) {
	return list[Product](ctx, c, productsPath, params)
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	return get[Product](ctx, c, productsPath, id)
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	return create[Product](ctx, c, productsPath, in)
}

// UpdateProduct replaces a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	return update[Product](ctx, c, productsPath, id, in)
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return remove(ctx, c, productsPath, id)
}
