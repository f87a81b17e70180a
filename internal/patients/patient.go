// Package patients implements the patient domain: identity records created
// on first detection and looked up by name thereafter.
package patients

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultName is used when an upload carries no patient name.
const DefaultName = "Anonymous"

// Gender is a patient's recorded gender code.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// ParseGender maps a form value to a Gender, defaulting to GenderOther.
func ParseGender(s string) Gender {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g
	default:
		return GenderOther
	}
}

// Label returns the display name for g.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Other"
	}
}

// Patient is a person screened by the system.
type Patient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    Gender    `json:"gender"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Backfill copies fields from cmd that p has not recorded yet and reports
// whether p changed. Only an unknown age (zero) is filled in.
func (p *Patient) Backfill(cmd GetOrCreateCommand) bool {
	if p.Age == 0 && cmd.Age > 0 {
		p.Age = cmd.Age
		return true
	}
	return false
}

// GetOrCreateCommand identifies a patient by name and carries the fields
// used when the patient does not yet exist.
type GetOrCreateCommand struct {
	Name   string
	Age    int
	Gender Gender
	Phone  string
	Email  string
}

// Normalize applies defaults: an empty name becomes DefaultName, a negative
// age becomes zero, and an unknown gender becomes GenderOther.
func (c *GetOrCreateCommand) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = DefaultName
	}
	c.Age = max(c.Age, 0)
	c.Gender = ParseGender(string(c.Gender))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
}

// ParseAge converts a form value to an age. Non-numeric or negative values are zero.
func ParseAge(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NewID returns a human-readable patient identifier, e.g. PT1A2B3C4D.
func NewID() string {
	return "PT" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
