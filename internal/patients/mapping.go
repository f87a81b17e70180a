package patients

import (
	"net/url"

	"github.com/JaimeStill/iris/pkg/query"
	"github.com/JaimeStill/iris/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "patients", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("age", "Age").
	Project("gender", "Gender").
	Project("phone", "Phone").
	Project("email", "Email").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

var oldestFirst = query.SortField{Field: "CreatedAt"}

// Filters contains optional filtering criteria for patient queries.
// Gender uses exact matching; Name uses case-insensitive contains matching.
type Filters struct {
	Name   *string `json:"name,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("Gender", f.Gender)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if g := values.Get("gender"); g != "" {
		code := string(ParseGender(g))
		f.Gender = &code
	}

	return f
}

func scanPatient(s repository.Scanner) (Patient, error) {
	var p Patient
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Gender,
		&p.Phone,
		&p.Email,
		&p.CreatedAt,
	)
	return p, err
}
