package disease_test

import (
	"testing"

	"github.com/JaimeStill/iris/internal/disease"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		disease    disease.Disease
		confidence float64
		want       disease.Severity
	}{
		{disease.Normal, 99, disease.Mild},
		{disease.Glaucoma, 90, disease.Severe},
		{disease.Cataract, 72, disease.Moderate},
		{disease.Cataract, 50, disease.Mild},
		{disease.DiabeticRetinopathy, 85, disease.Severe},
		{disease.DiabeticRetinopathy, 84.99, disease.Moderate},
		{disease.Glaucoma, 70, disease.Moderate},
		{disease.Glaucoma, 69.99, disease.Mild},
		{disease.Normal, 10, disease.Mild},
	}

	for _, tt := range tests {
		if got := disease.Derive(tt.disease, tt.confidence); got != tt.want {
			t.Errorf("Derive(%s, %v) = %s, want %s", tt.disease, tt.confidence, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		want  disease.Disease
		known bool
	}{
		{"cataract", disease.Cataract, true},
		{" Glaucoma ", disease.Glaucoma, true},
		{"DIABETIC_RETINOPATHY", disease.DiabeticRetinopathy, true},
		{"conjunctivitis", disease.Disease("conjunctivitis"), false},
	}

	for _, tt := range tests {
		got, known := disease.Parse(tt.in)
		if got != tt.want || known != tt.known {
			t.Errorf("Parse(%q) = (%s, %v), want (%s, %v)", tt.in, got, known, tt.want, tt.known)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[disease.Disease]string{
		disease.Cataract:            "Cataract",
		disease.DiabeticRetinopathy: "Diabetic Retinopathy",
		disease.Glaucoma:            "Glaucoma",
		disease.Normal:              "Normal",
	}

	for d, want := range tests {
		if got := d.DisplayName(); got != want {
			t.Errorf("%s.DisplayName() = %q, want %q", d, got, want)
		}
	}
}

func TestColors(t *testing.T) {
	if got := disease.Cataract.Color(); got != "#ef4444" {
		t.Errorf("cataract color = %s", got)
	}
	if got := disease.Disease("unknown").Color(); got != disease.Normal.Color() {
		t.Errorf("unknown color = %s, want normal color", got)
	}
	if got := disease.Severe.Color(); got != "#ef4444" {
		t.Errorf("severe color = %s", got)
	}
	if got := disease.Moderate.Color(); got != "#f97316" {
		t.Errorf("moderate color = %s", got)
	}
	if disease.Severity("CRITICAL").Valid() {
		t.Error("CRITICAL reported valid")
	}
}

func TestProbabilitiesComplete(t *testing.T) {
	p := disease.Probabilities{
		disease.Cataract:         60,
		disease.Glaucoma:         40,
		disease.Disease("bogus"): 5,
	}

	full := p.Complete()
	if len(full) != len(disease.Classes) {
		t.Fatalf("len = %d, want %d", len(full), len(disease.Classes))
	}
	if full[disease.Normal] != 0 {
		t.Errorf("normal = %v, want 0", full[disease.Normal])
	}
	if full.Sum() != 100 {
		t.Errorf("sum = %v, want 100", full.Sum())
	}
}

func TestRound2(t *testing.T) {
	if got := disease.Round2(78.456); got != 78.46 {
		t.Errorf("Round2(78.456) = %v, want 78.46", got)
	}
}

func TestParseProbabilities(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    disease.Probabilities
		wantErr bool
	}{
		{name: "object", raw: `{"glaucoma": 87.5, "normal": 12.5}`, want: disease.Probabilities{disease.Glaucoma: 87.5, disease.Normal: 12.5}},
		{name: "empty", raw: "", want: disease.Probabilities{}},
		{name: "malformed", raw: `{"glaucoma": 87.5`, want: disease.Probabilities{}, wantErr: true},
		{name: "wrong type", raw: `[1, 2]`, want: disease.Probabilities{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := disease.ParseProbabilities(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got == nil {
				t.Fatal("got nil map")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
