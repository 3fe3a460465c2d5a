// Package review resolves projected review fields for individual documents.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/roamstay/reviewdex/internal/db"
	"github.com/roamstay/reviewdex/internal/domain"
)

// store is the consumer interface for per-document field resolution (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	QueryByField(ctx context.Context, q *db.FieldQuery) (*db.SearchResult, error)
}

// Repo reads review documents by key and by declarative query.
type Repo struct {
	store     store
	keyPrefix string
	indexName string
	idField   string
}

// New creates a review repository.
func New(s store, keyPrefix, indexName, idField string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, indexName: indexName, idField: idField}
}

// Fetch retrieves the full document by id via key-value lookup and extracts
// the requested fields from the document body.
func (r *Repo) Fetch(ctx context.Context, id string, fields []string) (map[string]string, error) {
	key := r.keyPrefix + id
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	doc, err := parseJSONDoc(raw)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", key, err)
	}

	return extractFields(doc, fields), nil
}

// QueryFields looks the document up through a declarative query on the
// indexed id field and returns the first matching row's fields.
func (r *Repo) QueryFields(ctx context.Context, id string, fields []string) (map[string]string, error) {
	sr, err := r.store.QueryByField(ctx, &db.FieldQuery{
		IndexName:    r.indexName,
		Field:        r.idField,
		Value:        id,
		ReturnFields: fields,
		Limit:        1,
	})
	if err != nil {
		return nil, fmt.Errorf("query by %s: %w", r.idField, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	return sr.Entries[0].Fields, nil
}

// parseJSONDoc unwraps a JSON.GET "$" reply: a one-element array holding the
// document object.
func parseJSONDoc(raw []byte) (map[string]any, error) {
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		// Some server versions return the bare object for a root path get.
		var doc map[string]any
		if err2 := json.Unmarshal(raw, &doc); err2 == nil {
			return doc, nil
		}
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	return docs[0], nil
}

// extractFields flattens the requested document values into strings. Nested
// objects and arrays are kept as compact JSON.
func extractFields(doc map[string]any, fields []string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, name := range fields {
		v, ok := doc[name]
		if !ok || v == nil {
			continue
		}
		out[name] = flattenValue(v)
	}
	return out
}

func flattenValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
