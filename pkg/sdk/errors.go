package sdk

import "errors"

var (
	// ErrInvalidQuery indicates the service rejected the request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSearchFailed indicates the service could not execute the search.
	ErrSearchFailed = errors.New("search failed")
	// ErrUnavailable indicates the service or its store is unavailable.
	ErrUnavailable = errors.New("service unavailable")
)
