package models

import "strings"

const (
	// TypeAll lifts the type restriction on a listing.
	TypeAll = "all"

	DefaultPageSize = 20
	// UnboundedPageSize disables pagination entirely.
	UnboundedPageSize = -1
)

// MetaQuery filters a listing on a single metadata triple.
type MetaQuery struct {
	Key     string `json:"meta_key"`
	Value   string `json:"meta_value"`
	Compare string `json:"compare"`
}

// ListPeopleRequest configures a people listing. The zero value lists the
// first page of every active record of any type, newest id first.
type ListPeopleRequest struct {
	// Types restricts to records carrying any of the names; empty or
	// containing TypeAll means no restriction.
	Types   []string   `json:"types"`
	Number  int        `json:"number"`
	Offset  int        `json:"offset"`
	OrderBy string     `json:"orderby"`
	Order   string     `json:"order"`
	Trashed bool       `json:"trashed"`
	Meta    *MetaQuery `json:"meta_query,omitempty"`
	Search  string     `json:"s"`
	Include []int64    `json:"include,omitempty"`
	Exclude []int64    `json:"exclude,omitempty"`
}

// Normalize fills defaults in place and returns the request for chaining.
func (r *ListPeopleRequest) Normalize() *ListPeopleRequest {
	if r.Number == 0 {
		r.Number = DefaultPageSize
	}
	if r.OrderBy == "" {
		r.OrderBy = "id"
	}
	r.Order = strings.ToUpper(r.Order)
	if r.Order != "ASC" {
		r.Order = "DESC"
	}
	if r.Meta != nil && r.Meta.Compare == "" {
		r.Meta.Compare = "="
	}

	filtered := r.Types[:0]
	for _, t := range r.Types {
		if t == TypeAll {
			filtered = r.Types[:0]
			break
		}
		filtered = append(filtered, t)
	}
	r.Types = filtered

	return r
}

// CacheMap flattens the normalized request into a map for fingerprinting.
func (r *ListPeopleRequest) CacheMap() map[string]any {
	m := map[string]any{
		"types":   r.Types,
		"number":  r.Number,
		"offset":  r.Offset,
		"orderby": r.OrderBy,
		"order":   r.Order,
		"trashed": r.Trashed,
		"s":       r.Search,
		"include": r.Include,
		"exclude": r.Exclude,
	}
	if r.Meta != nil {
		m["meta_query"] = map[string]any{
			"meta_key":   r.Meta.Key,
			"meta_value": r.Meta.Value,
			"compare":    r.Meta.Compare,
		}
	}
	return m
}

// InsertPeopleRequest is the upsert payload. ID zero means create. Fields
// carries the caller's field map; keys outside MainFields land in metadata.
type InsertPeopleRequest struct {
	ID     int64          `json:"id"`
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

// DeletePeopleRequest identifies the records and the type membership to
// delete or restore.
type DeletePeopleRequest struct {
	IDs  []int64 `json:"ids"`
	Type string  `json:"type"`
	Hard bool    `json:"hard"`
}
