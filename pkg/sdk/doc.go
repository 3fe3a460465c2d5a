// Package sdk is a thin Go client for the reviewdex HTTP API.
//
// The client wraps the /v1/search and /healthz endpoints:
//
//	client := sdk.New("http://localhost:8080")
//	resp, err := client.Search(ctx, "quiet room near the beach", 5)
package sdk
