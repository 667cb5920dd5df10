package crmsdk

import (
	"context"
	"net/http"
)

// DashboardStatistics returns aggregate counts. An empty userID asks for
// tenant-wide numbers; otherwise counts are scoped to that user's records.
func (c *Client) DashboardStatistics(ctx context.Context, userID string) (*DashboardStats, error) {
	body := map[string]string{}
	if userID != "" {
		body["userId"] = userID
	}

	return call[DashboardStats](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/dashboard/statistics",
		body:   body,
	})
}
