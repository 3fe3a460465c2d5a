package sdk

// SearchResult is one ranked review returned by the service.
type SearchResult struct {
	ID              string            `json:"id"`
	SimilarityScore float64           `json:"similarity_score"`
	Fields          map[string]string `json:"fields"`
}

// SearchResponse is the body of a successful search call.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// HealthReport is the body of a health check call.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
