// Package detections implements the detection domain: running the pipeline
// for uploaded images, persisting results for patients, rendering reports,
// and summarizing screening activity.
package detections

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/internal/patients"
)

// Detection is one persisted classification of an uploaded image.
type Detection struct {
	ID            string                `json:"id"`
	PatientID     string                `json:"patient_id"`
	PatientName   string                `json:"patient_name"`
	ImageKey      string                `json:"image_key"`
	Disease       disease.Disease       `json:"disease"`
	Confidence    float64               `json:"confidence"`
	Severity      disease.Severity      `json:"severity"`
	Content       content.Bundle        `json:"content"`
	ContentSource content.Source        `json:"content_source"`
	Probabilities disease.Probabilities `json:"all_probs"`
	ReportKey     *string               `json:"report_key"`
	CreatedAt     time.Time             `json:"created_at"`
}

// UploadCommand carries an uploaded image and the patient it belongs to.
type UploadCommand struct {
	Data        []byte
	ContentType string
	Patient     patients.GetOrCreateCommand
}

// Created is the response to a successful upload.
type Created struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// Snapshot is the classification of a webcam snapshot. Snapshots are not persisted.
type Snapshot struct {
	Disease       disease.Disease       `json:"disease"`
	DiseaseName   string                `json:"disease_name"`
	Confidence    float64               `json:"confidence"`
	Severity      disease.Severity      `json:"severity"`
	Probabilities disease.Probabilities `json:"all_probs"`
}

// Report is a rendered report ready for download.
type Report struct {
	Filename string
	Data     []byte
}

// Probability is one row of a detection's class breakdown.
type Probability struct {
	Disease disease.Disease `json:"disease"`
	Name    string          `json:"name"`
	Value   float64         `json:"value"`
	Color   string          `json:"color"`
}

// View is a detection prepared for display: probabilities in class order
// and clinical text split into list items.
type View struct {
	Detection     Detection             `json:"detection"`
	Patient       *patients.Patient     `json:"patient"`
	DiseaseName   string                `json:"disease_name"`
	DiseaseColor  string                `json:"disease_color"`
	SeverityColor string                `json:"severity_color"`
	AllProbs      disease.Probabilities `json:"all_probs"`
	Breakdown     []Probability         `json:"breakdown"`
	Symptoms      []string              `json:"symptoms"`
	Causes        []string              `json:"causes"`
	Treatment     []string              `json:"treatment"`
	Prevention    []string              `json:"prevention"`
}

// Tally is a labelled count.
type Tally struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes screening activity.
type Stats struct {
	TotalDetections int         `json:"total_detections"`
	TotalPatients   int         `json:"total_patients"`
	ByDisease       []Tally     `json:"by_disease"`
	BySeverity      []Tally     `json:"by_severity"`
	Recent          []Detection `json:"recent"`
	Monthly         []Tally     `json:"monthly"`
}

// RecentLimit is the number of recent detections included in Stats.
const RecentLimit = 15

// TrendMonths is the number of calendar months covered by Stats.Monthly.
const TrendMonths = 6

// NewID returns a human-readable detection identifier, e.g. DT1A2B3C4D.
func NewID() string {
	return "DT" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
