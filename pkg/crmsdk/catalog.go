package crmsdk

import "context"

const (
	categoriesPath = "/api/categories"
	modelsPath     = "/api/models"
)

// ============================================================================
// Categories
// ============================================================================

func (c *Client) ListCategories(ctx context.Context, params ListParams) (*Page[Category], error) {
	return list[Category](ctx, c, categoriesPath, params)
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	return create[Category](ctx, c, categoriesPath, in)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	return update[Category](ctx, c, categoriesPath, id, in)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return remove(ctx, c, categoriesPath, id)
}

// ============================================================================
// Models
// ============================================================================

// ListModels returns a page of models. Filters: "category".
func (c *Client) ListModels(ctx context.Context, params ListParams) (*Page[ProductModel], error) {
	return list[ProductModel](ctx, c, modelsPath, params)
}

func (c *Client) CreateModel(ctx context.Context, in ProductModelInput) (*ProductModel, error) {
	return create[ProductModel](ctx, c, modelsPath, in)
}

func (c *Client) UpdateModel(ctx context.Context, id string, in ProductModelInput) (*ProductModel, error) {
	return update[ProductModel](ctx, c, modelsPath, id, in)
}

func (c *Client) DeleteModel(ctx context.Context, id string) error {
	return remove(ctx, c, modelsPath, id)
}
