package detections_test

import (
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/internal/patients"
)

func TestListItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bullets", "• Blurry vision\n• Glare", []string{"Blurry vision", "Glare"}},
		{"mixed markers", "- one\n* two\n  •three  ", []string{"one", "two", "three"}},
		{"blank lines", "first\n\n   \nsecond", []string{"first", "second"}},
		{"marker only", "•\n-", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detections.ListItems(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ListItems(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewView(t *testing.T) {
	d := detections.Detection{
		ID:         "DT1A2B3C4D",
		Disease:    disease.DiabeticRetinopathy,
		Confidence: 86.5,
		Severity:   disease.Severe,
		Content: content.Bundle{
			Symptoms:   "• Floaters\n• Dark areas",
			Treatment:  "- Laser therapy",
			Causes:     "",
			Prevention: "* Control blood sugar",
		},
		Probabilities: disease.Probabilities{disease.DiabeticRetinopathy: 86.5, disease.Normal: 13.5},
	}
	p := &patients.Patient{ID: "PT1", Name: "Jane"}

	v := detections.NewView(d, p)

	if v.DiseaseName != "Diabetic Retinopathy" {
		t.Errorf("DiseaseName = %q", v.DiseaseName)
	}
	if v.DiseaseColor != disease.DiabeticRetinopathy.Color() {
		t.Errorf("DiseaseColor = %q", v.DiseaseColor)
	}
	if v.SeverityColor != disease.Severe.Color() {
		t.Errorf("SeverityColor = %q", v.SeverityColor)
	}
	if v.Patient != p {
		t.Error("patient not attached")
	}

	if len(v.Breakdown) != len(disease.Classes) {
		t.Fatalf("breakdown len = %d", len(v.Breakdown))
	}
	for i, c := range disease.Classes {
		if v.Breakdown[i].Disease != c {
			t.Errorf("breakdown[%d] = %s, want %s", i, v.Breakdown[i].Disease, c)
		}
	}
	if v.AllProbs[disease.Cataract] != 0 {
		t.Errorf("missing class should be zero, got %v", v.AllProbs[disease.Cataract])
	}

	if !slices.Equal(v.Symptoms, []string{"Floaters", "Dark areas"}) {
		t.Errorf("Symptoms = %q", v.Symptoms)
	}
	if len(v.Causes) != 0 {
		t.Errorf("Causes = %q", v.Causes)
	}
	if !slices.Equal(v.Prevention, []string{"Control blood sugar"}) {
		t.Errorf("Prevention = %q", v.Prevention)
	}
}

func TestMonthly(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	counts := map[string]int{
		"2025-10": 2,
		"2026-01": 5,
		"2026-03": 1,
		"2025-09": 9,
	}

	got := detections.Monthly(counts, now, 6)

	wantLabels := []string{"Oct 2025", "Nov 2025", "Dec 2025", "Jan 2026", "Feb 2026", "Mar 2026"}
	wantCounts := []int{2, 0, 0, 5, 0, 1}

	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i := range got {
		if got[i].Label != wantLabels[i] || got[i].Count != wantCounts[i] {
			t.Errorf("month %d = %+v, want %s/%d", i, got[i], wantLabels[i], wantCounts[i])
		}
	}
}

func TestMonthlyEndOfMonth(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	got := detections.Monthly(nil, now, 6)

	if got[0].Key != "2026-03" || got[5].Key != "2026-08" {
		t.Errorf("range = %s..%s, want 2026-03..2026-08", got[0].Key, got[5].Key)
	}
}

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^DT[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for range 100 {
		id := detections.NewID()
		if !re.MatchString(id) {
			t.Fatalf("NewID() = %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 99 {
		t.Errorf("ids not unique: %d of 100", len(seen))
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{detections.ErrNotFound, 404},
		{detections.ErrReportUnavailable, 404},
		{patients.ErrNotFound, 404},
		{detections.ErrDuplicate, 409},
		{detections.ErrNoImage, 400},
		{detections.ErrFileTooLarge, 413},
	}

	for _, tt := range tests {
		if got := detections.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
