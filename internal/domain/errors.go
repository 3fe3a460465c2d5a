package domain

import "errors"

var (
	// ErrStoreUnavailable signals that the document store cannot be reached.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrEncodingFailed signals that query text could not be embedded.
	ErrEncodingFailed = errors.New("query encoding failed")
	// ErrSearchUnavailable signals that both vector search forms failed.
	ErrSearchUnavailable = errors.New("vector search unavailable")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
