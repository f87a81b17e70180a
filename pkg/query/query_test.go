package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/iris/pkg/query"
)

func detectionProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "detections", "d").
		Project("id", "ID").
		Project("predicted_disease", "Disease").
		Project("severity", "Severity").
		Project("detected_at", "DetectedAt").
		Join("public", "patients", "p", "JOIN", "p.id = d.patient_id").
		Project("name", "PatientName")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := detectionProjection()

	if got := p.Table(); got != "public.detections d" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Alias(); got != "d" {
		t.Errorf("Alias() = %q", got)
	}

	wantFrom := "public.detections d JOIN public.patients p ON p.id = d.patient_id"
	if got := p.From(); got != wantFrom {
		t.Errorf("From() = %q, want %q", got, wantFrom)
	}

	wantCols := "d.id, d.predicted_disease, d.severity, d.detected_at, p.name"
	if got := p.Columns(); got != wantCols {
		t.Errorf("Columns() = %q, want %q", got, wantCols)
	}

	tests := []struct {
		view string
		want string
	}{
		{"Disease", "d.predicted_disease"},
		{"PatientName", "p.name"},
		{"unmapped", "unmapped"},
	}
	for _, tt := range tests {
		if got := p.Column(tt.view); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.view, got, tt.want)
		}
	}

	plain := query.NewProjectionMap("public", "patients", "p").Project("id", "ID")
	if plain.From() != plain.Table() {
		t.Errorf("From() without joins = %q", plain.From())
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"Disease", []query.SortField{{Field: "Disease"}}},
		{"Disease,-DetectedAt", []query.SortField{{Field: "Disease"}, {Field: "DetectedAt", Descending: true}}},
		{" Severity , ,", []query.SortField{{Field: "Severity"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderConditions(t *testing.T) {
	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	disease := "glaucoma"

	qb := query.NewBuilder(detectionProjection(), query.SortField{Field: "DetectedAt", Descending: true}).
		WhereEquals("Disease", &disease).
		WhereEquals("Severity", (*string)(nil)).
		WhereSince("DetectedAt", &since).
		WhereSearch(ptr("jane"), "PatientName", "ID").
		WhereIn("Severity", []any{"MILD", "SEVERE"})

	sql, args := qb.BuildPage(2, 10)

	wantWhere := " WHERE d.predicted_disease = $1 AND d.detected_at >= $2 AND (p.name ILIKE $3 OR d.id ILIKE $4) AND d.severity IN ($5, $6)"
	if !strings.Contains(sql, wantWhere) {
		t.Errorf("sql = %s\nwant where %s", sql, wantWhere)
	}
	if !strings.HasSuffix(sql, " ORDER BY d.detected_at DESC LIMIT 10 OFFSET 10") {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 6 {
		t.Fatalf("args = %v, want 6", args)
	}
	if args[2] != "%jane%" {
		t.Errorf("search arg = %v", args[2])
	}
}

func TestBuilderCountAndGroup(t *testing.T) {
	qb := query.NewBuilder(detectionProjection()).WhereContains("PatientName", ptr("an"))

	countSQL, countArgs := qb.BuildCount()
	wantCount := "SELECT COUNT(*) FROM public.detections d JOIN public.patients p ON p.id = d.patient_id WHERE p.name ILIKE $1"
	if countSQL != wantCount {
		t.Errorf("count = %q, want %q", countSQL, wantCount)
	}
	if len(countArgs) != 1 {
		t.Errorf("count args = %v", countArgs)
	}

	groupSQL, _ := qb.BuildGroupCount("Severity")
	if !strings.HasSuffix(groupSQL, "GROUP BY d.severity ORDER BY d.severity") {
		t.Errorf("group = %q", groupSQL)
	}
	if !strings.HasPrefix(groupSQL, "SELECT d.severity, COUNT(*) FROM") {
		t.Errorf("group = %q", groupSQL)
	}
}

func TestBuilderOrderOverride(t *testing.T) {
	qb := query.NewBuilder(detectionProjection(), query.SortField{Field: "DetectedAt", Descending: true}).
		OrderByFields([]query.SortField{{Field: "PatientName"}})

	sql, _ := qb.Build()
	if !strings.HasSuffix(sql, " ORDER BY p.name ASC") {
		t.Errorf("sql = %s", sql)
	}

	single, args := qb.BuildSingle("ID", "DT00000001")
	if !strings.HasSuffix(single, "WHERE d.id = $1") || args[0] != "DT00000001" {
		t.Errorf("single = %s %v", single, args)
	}
}
