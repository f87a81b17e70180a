package detections

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/internal/reports"
)

// NewView prepares d for display. patient may be nil.
func NewView(d Detection, patient *patients.Patient) View {
	probs := d.Probabilities.Complete()

	breakdown := make([]Probability, 0, len(disease.Classes))
	for _, c := range disease.Classes {
		breakdown = append(breakdown, Probability{
			Disease: c,
			Name:    c.DisplayName(),
			Value:   probs[c],
			Color:   c.Color(),
		})
	}

	return View{
		Detection:     d,
		Patient:       patient,
		DiseaseName:   d.Disease.DisplayName(),
		DiseaseColor:  d.Disease.Color(),
		SeverityColor: d.Severity.Color(),
		AllProbs:      probs,
		Breakdown:     breakdown,
		Symptoms:      ListItems(d.Content.Symptoms),
		Causes:        ListItems(d.Content.Causes),
		Treatment:     ListItems(d.Content.Treatment),
		Prevention:    ListItems(d.Content.Prevention),
	}
}

// ListItems splits newline-separated clinical text into items, stripping
// leading bullet markers and dropping blank lines.
func ListItems(text string) []string {
	lines := reports.Lines(text)
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		item := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(l), "•-*"))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Monthly returns one tally per calendar month for the months ending with
// now's month, oldest first. Months absent from counts have a zero count.
func Monthly(counts map[string]int, now time.Time, months int) []Tally {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	tallies := make([]Tally, months)
	for i := range months {
		m := start.AddDate(0, i-months+1, 0)
		key := m.Format("2006-01")
		tallies[i] = Tally{
			Key:   key,
			Label: m.Format("Jan 2006"),
			Count: counts[key],
		}
	}
	return tallies
}

// trendStart returns the first instant of the earliest month covered by Monthly.
func trendStart(now time.Time, months int) time.Time {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start.AddDate(0, 1-months, 0)
}

func diseaseTallies(rows []Tally) []Tally {
	for i := range rows {
		if d, ok := disease.Parse(rows[i].Key); ok {
			rows[i].Label = d.DisplayName()
		} else {
			rows[i].Label = rows[i].Key
		}
	}
	slices.SortStableFunc(rows, func(a, b Tally) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return rows
}

func severityTallies(rows []Tally) []Tally {
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}

	order := []disease.Severity{disease.Mild, disease.Moderate, disease.Severe}
	tallies := make([]Tally, 0, len(order))
	for _, s := range order {
		tallies = append(tallies, Tally{
			Key:   string(s),
			Label: string(s),
			Count: counts[string(s)],
		})
	}
	return tallies
}
