package people

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

const (
	peopleTable    = "people"
	typesTable     = "people_types"
	relationsTable = "people_type_relations"
	metaTable      = "people_meta"
)

type PersonRow struct {
	ID         sql.NullInt64  `db:"id"`
	FirstName  sql.NullString `db:"first_name"`
	LastName   sql.NullString `db:"last_name"`
	Company    sql.NullString `db:"company"`
	Email      sql.NullString `db:"email"`
	Phone      sql.NullString `db:"phone"`
	Mobile     sql.NullString `db:"mobile"`
	Other      sql.NullString `db:"other"`
	Website    sql.NullString `db:"website"`
	Fax        sql.NullString `db:"fax"`
	Notes      sql.NullString `db:"notes"`
	Street1    sql.NullString `db:"street_1"`
	Street2    sql.NullString `db:"street_2"`
	City       sql.NullString `db:"city"`
	State      sql.NullString `db:"state"`
	PostalCode sql.NullString `db:"postal_code"`
	Country    sql.NullString `db:"country"`
	Currency   sql.NullString `db:"currency"`
	UserID     sql.NullInt64  `db:"user_id"`
	CreatedBy  sql.NullInt64  `db:"created_by"`
	Created    sql.NullTime   `db:"created"`
}

var personStruct = database.NewStruct(new(PersonRow))

func ToPerson(row *PersonRow) models.Person {
	return models.Person{
		ID:         row.ID.Int64,
		FirstName:  row.FirstName.String,
		LastName:   row.LastName.String,
		Company:    row.Company.String,
		Email:      row.Email.String,
		Phone:      row.Phone.String,
		Mobile:     row.Mobile.String,
		Other:      row.Other.String,
		Website:    row.Website.String,
		Fax:        row.Fax.String,
		Notes:      row.Notes.String,
		Street1:    row.Street1.String,
		Street2:    row.Street2.String,
		City:       row.City.String,
		State:      row.State.String,
		PostalCode: row.PostalCode.String,
		Country:    row.Country.String,
		Currency:   row.Currency.String,
		UserID:     row.UserID.Int64,
		CreatedBy:  row.CreatedBy.Int64,
		Created:    row.Created.Time,
	}
}

// personWithTypesRow carries a person plus the aggregated type names produced
// by string_agg in the listing queries.
type personWithTypesRow struct {
	PersonRow
	Types sql.NullString `db:"types"`
}

func toPersonWithTypes(row *personWithTypesRow) models.PersonWithTypes {
	return models.PersonWithTypes{
		Person: ToPerson(&row.PersonRow),
		Types:  splitTypes(row.Types),
	}
}

func splitTypes(agg sql.NullString) []string {
	if !agg.Valid || agg.String == "" {
		return nil
	}
	return strings.Split(agg.String, ",")
}

// TypeRelation is one person/type membership row. DeletedAt marks the
// membership as trashed without touching the person itself.
type TypeRelation struct {
	ID        int64
	PeopleID  int64
	TypeID    int64
	DeletedAt *time.Time
}

type relationRow struct {
	ID        sql.NullInt64 `db:"id"`
	PeopleID  sql.NullInt64 `db:"people_id"`
	TypeID    sql.NullInt64 `db:"people_types_id"`
	DeletedAt sql.NullTime  `db:"deleted_at"`
}

func toTypeRelation(row *relationRow) *TypeRelation {
	rel := &TypeRelation{
		ID:       row.ID.Int64,
		PeopleID: row.PeopleID.Int64,
		TypeID:   row.TypeID.Int64,
	}
	if row.DeletedAt.Valid {
		deletedAt := row.DeletedAt.Time
		rel.DeletedAt = &deletedAt
	}
	return rel
}
