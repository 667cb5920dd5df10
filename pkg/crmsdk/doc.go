/*
Package crmsdk provides a client SDK for the CRM back-office REST API.

# Overview

One Client is shared by the whole console. It knows the API origin, attaches the
current bearer token to every authenticated request, and reports 401 responses
through a single hook so the session layer can clear credentials and send the
user back to the login screen.

	client := crmsdk.NewClient("https://crm.example.com")
	client.Tokens = store                 // anything with Token(ctx) (string, bool)
	client.OnUnauthorized = controller.Expire

	login, err := client.Login(ctx, "a@b.com", "secret")

	page, err := client.ListProducts(ctx, crmsdk.ListParams{
		Page:      1,
		Limit:     20,
		SortBy:    "title",
		SortOrder: crmsdk.SortAsc,
		Filters:   map[string]string{"category": categoryID},
	})

# Endpoint Organization

Operations are grouped by entity:

  - auth.go: login
  - products.go, customers.go, users.go, catalog.go (categories, models)
  - quotations.go: CRUD, admin approval, conversion status
  - messages.go: default message templates
  - uploads.go: product image and signature uploads
  - dashboard.go: aggregate statistics

Every list endpoint takes ListParams and returns the uniform Page envelope
{items, page, limit, total, totalPages}.

# Response Validation

Every decoded response is validated before it is returned. A payload that
decodes but lacks required fields (a user without a role, a page without items)
fails with ErrInvalidResponse instead of leaking a half-filled struct into view
code.

# Error Handling

The SDK returns typed errors:

  - *APIError: a response arrived with a non-2xx status. Detail holds the
    structured "error" field and Message the generic "message" field.
  - *NetworkError: no response was received at all.
  - ErrInvalidResponse: the response did not match the expected shape.

UserMessage picks the best text for a notification:

	if err := client.DeleteProduct(ctx, id); err != nil {
		notify(crmsdk.UserMessage(err, "Failed to delete product"))
	}

# Thread Safety

Client holds no mutable state of its own and is safe for concurrent use.
Token reads go through the TokenSource, which must be safe for concurrent use.
*/
package crmsdk
