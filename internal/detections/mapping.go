package detections

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/pkg/query"
	"github.com/JaimeStill/iris/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "detections", "d").
	Project("id", "ID").
	Project("patient_id", "PatientID").
	Project("image_key", "ImageKey").
	Project("disease", "Disease").
	Project("confidence", "Confidence").
	Project("severity", "Severity").
	Project("english_explanation", "English").
	Project("tamil_explanation", "Tamil").
	Project("symptoms", "Symptoms").
	Project("causes", "Causes").
	Project("treatment", "Treatment").
	Project("prevention", "Prevention").
	Project("disclaimer", "Disclaimer").
	Project("probabilities", "Probabilities").
	Project("content_source", "ContentSource").
	Project("report_key", "ReportKey").
	Project("created_at", "CreatedAt").
	Join("public", "patients", "p", "JOIN", "p.id = d.patient_id").
	Project("name", "PatientName")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for detection queries.
// All fields use exact matching.
type Filters struct {
	Disease   *string `json:"disease,omitempty"`
	Severity  *string `json:"severity,omitempty"`
	PatientID *string `json:"patient_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Disease", f.Disease).
		WhereEquals("Severity", f.Severity).
		WhereEquals("PatientID", f.PatientID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("disease"); d != "" {
		f.Disease = &d
	}

	if s := values.Get("severity"); s != "" {
		s = strings.ToUpper(s)
		f.Severity = &s
	}

	if p := values.Get("patient_id"); p != "" {
		f.PatientID = &p
	}

	return f
}

// scanDetection reads one detection row. An unreadable probabilities column
// is logged and replaced by an empty map so the row stays listable.
func (r *repo) scanDetection(s repository.Scanner) (Detection, error) {
	var (
		d         Detection
		probs     string
		reportKey sql.NullString
	)

	err := s.Scan(
		&d.ID,
		&d.PatientID,
		&d.ImageKey,
		&d.Disease,
		&d.Confidence,
		&d.Severity,
		&d.Content.English,
		&d.Content.Tamil,
		&d.Content.Symptoms,
		&d.Content.Causes,
		&d.Content.Treatment,
		&d.Content.Prevention,
		&d.Content.Disclaimer,
		&probs,
		&d.ContentSource,
		&reportKey,
		&d.CreatedAt,
		&d.PatientName,
	)
	if err != nil {
		return d, err
	}

	if reportKey.Valid {
		d.ReportKey = &reportKey.String
	}

	d.Probabilities, err = disease.ParseProbabilities(probs)
	if err != nil {
		r.logger.Warn("stored probabilities unreadable", "id", d.ID, "error", err)
	}
	return d, nil
}

func encodeProbabilities(p disease.Probabilities) (string, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode probabilities: %w", err)
	}
	return string(data), nil
}

func scanTally(s repository.Scanner) (Tally, error) {
	var t Tally
	err := s.Scan(&t.Key, &t.Count)
	return t, err
}
