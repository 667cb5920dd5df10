package crmsdk

import "context"

const usersPath = "/api/users"

// ListUsers returns a page of users. Filters: "role", "status".
// Requires: admin role
func (c *Client) ListUsers(ctx context.Context, params ListParams) (*Page[User], error) {
	return list[User](ctx, c, usersPath, params)
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return get[User](ctx, c, usersPath, id)
}

// CreateUser creates a user.
// Requires: admin role
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	return create[User](ctx, c, usersPath, in)
}

// UpdateUser updates a user. An empty password leaves it unchanged.
// Requires: admin role
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	return update[User](ctx, c, usersPath, id, in)
}

// DeleteUser deletes a user.
// Requires: admin role
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return remove(ctx, c, usersPath, id)
}
