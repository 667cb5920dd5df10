package crmsdk

import "context"

const defaultMessagesPath = "/api/default-messages"

// ListDefaultMessages returns the tenant's default message templates. The
// console uses the first one to seed new quotations.
func (c *Client) ListDefaultMessages(ctx context.Context, params ListParams) (*Page[DefaultMessage], error) {
	return list[DefaultMessage](ctx, c, defaultMessagesPath, params)
}

func (c *Client) CreateDefaultMessage(ctx context.Context, in DefaultMessageInput) (*DefaultMessage, error) {
	return create[DefaultMessage](ctx, c, defaultMessagesPath, in)
}

func (c *Client) UpdateDefaultMessage(ctx context.Context, id string, in DefaultMessageInput) (*DefaultMessage, error) {
	return update[DefaultMessage](ctx, c, defaultMessagesPath, id, in)
}

func (c *Client) DeleteDefaultMessage(ctx context.Context, id string) error {
	return remove(ctx, c, defaultMessagesPath, id)
}
