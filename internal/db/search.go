package db

// VectorQuery is the input for the structured vector similarity search form.
type VectorQuery struct {
	IndexName     string
	VectorField   string
	Vector        []float32
	CandidatePool int // ANN candidate pool, >= Limit
	Limit         int
	ReturnFields  []string // inline projection
}

// FieldQuery is the input for a declarative exact-match query on a tag field.
type FieldQuery struct {
	IndexName    string
	Field        string
	Value        string
	ReturnFields []string
	Limit        int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. Distance is the raw
// similarity distance for vector searches, 0 for declarative queries.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
