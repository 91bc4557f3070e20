// Package models holds the people domain types shared by the repositories,
// service, and routes.
package models

import "time"

// Person is the shared party record. One row can serve several components at
// once (a CRM contact that is also an accounting vendor) through its type
// relations.
type Person struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Mobile     string `json:"mobile"`
	Other      string `json:"other"`
	Website    string `json:"website"`
	Fax        string `json:"fax"`
	Notes      string `json:"notes"`
	Street1    string `json:"street_1"`
	Street2    string `json:"street_2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Currency   string `json:"currency"`
	// UserID links the optional login account; zero means unlinked.
	UserID    int64      `json:"user_id"`
	CreatedBy int64      `json:"created_by"`
	Created   time.Time  `json:"created"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// PersonWithTypes is a Person annotated with its active type names.
type PersonWithTypes struct {
	Person
	Types []string `json:"types"`
}

// HasType reports whether the record carries the given type name.
func (p *PersonWithTypes) HasType(name string) bool {
	for _, t := range p.Types {
		if t == name {
			return true
		}
	}
	return false
}

// DisplayName returns the company name for companies, otherwise the joined
// first/last name.
func (p *PersonWithTypes) DisplayName() string {
	if p.HasType(TypeCompany) {
		return p.Company
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PeopleType is a named tag classifying a person's role. The set of names is
// reference data owned by the schema; this service only resolves them.
type PeopleType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Type names with behavior attached to them. Other names are valid as long
// as they exist in people_types.
const (
	TypeContact  = "contact"
	TypeCompany  = "company"
	TypeVendor   = "vendor"
	TypeEmployee = "employee"
)

// PeopleMeta is one key/value pair attached to a person. Several rows may
// share a key unless the writer asked for uniqueness.
type PeopleMeta struct {
	ID       int64  `json:"id"`
	PeopleID int64  `json:"people_id"`
	Key      string `json:"meta_key"`
	Value    string `json:"meta_value"`
}

// MainFields returns the declared people column names. Insert payload keys
// outside this list are routed to the metadata side table.
func MainFields() []string {
	return []string{
		"user_id", "first_name", "last_name", "company", "email", "phone",
		"mobile", "other", "website", "fax", "notes", "street_1", "street_2",
		"city", "state", "postal_code", "country", "currency", "created_by",
		"created",
	}
}

// IsMainField reports whether the given payload key is a people column.
func IsMainField(key string) bool {
	for _, f := range MainFields() {
		if f == key {
			return true
		}
	}
	return false
}
