package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/internal/disease"
)

// Document is the data rendered into one report.
// ImageKey may be empty or reference a missing object; the photo is then omitted.
type Document struct {
	DetectionID   string
	PatientName   string
	PatientID     string
	Age           int
	Gender        string
	ImageKey      string
	Disease       disease.Disease
	Confidence    float64
	Severity      disease.Severity
	Probabilities disease.Probabilities
	Content       content.Bundle
}

// Section is a titled block of report body text.
type Section struct {
	Title  string
	Lines  []string
	Bullet bool
	Tamil  bool
}

// Key returns the storage key for a detection's report.
func Key(detectionID string) string {
	return fmt.Sprintf("reports/report_%s.pdf", detectionID)
}

// Filename returns the download filename for a detection's report.
func Filename(detectionID string) string {
	return fmt.Sprintf("eye_report_%s.pdf", detectionID)
}

// Sections returns the body sections in render order. Empty clinical lists
// are omitted.
func Sections(doc Document) []Section {
	sections := []Section{
		{Title: "Medical Explanation (English)", Lines: paragraph(doc.Content.English)},
		{Title: "Medical Explanation (Tamil / தமிழ்)", Lines: paragraph(doc.Content.Tamil), Tamil: true},
	}

	clinical := []struct {
		title string
		text  string
	}{
		{"Symptoms", doc.Content.Symptoms},
		{"Root Causes", doc.Content.Causes},
		{"Treatment Options", doc.Content.Treatment},
		{"Prevention & Care Tips", doc.Content.Prevention},
	}

	for _, c := range clinical {
		lines := Lines(c.text)
		if len(lines) == 0 {
			continue
		}
		sections = append(sections, Section{Title: c.title, Lines: lines, Bullet: true})
	}

	return sections
}

// Lines splits newline-delimited text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func paragraph(text string) []string {
	if text = strings.TrimSpace(text); text == "" {
		return nil
	}
	return []string{text}
}

func genderLabel(g string) string {
	switch strings.ToUpper(g) {
	case "M":
		return "Male"
	case "F":
		return "Female"
	default:
		return "Other"
	}
}

func reportDate(t time.Time) string {
	return t.Format("02 Jan 2006, 03:04 PM")
}

func footerDate(t time.Time) string {
	return t.Format("02 Jan 2006 at 15:04:05")
}
