// Package hit holds the store-native representation of a single search match.
package hit

// RawHit is one matched record as returned by the store, prior to field
// resolution. Fields is the inline projection attached by the search response
// and may be absent (nil) depending on the search form used.
type RawHit struct {
	id       string
	distance float64
	fields   map[string]string
}

// New creates a raw hit. fields may be nil when the search form did not
// attach an inline projection.
func New(id string, distance float64, fields map[string]string) RawHit {
	return RawHit{id: id, distance: distance, fields: fields}
}

// ID returns the document identifier.
func (h *RawHit) ID() string { return h.id }

// Distance returns the raw similarity distance reported by the store.
func (h *RawHit) Distance() float64 { return h.distance }

// Fields returns the inline field projection, nil if absent.
func (h *RawHit) Fields() map[string]string { return h.fields }

// HasFields reports whether the search response attached an inline projection.
func (h *RawHit) HasFields() bool { return len(h.fields) > 0 }
