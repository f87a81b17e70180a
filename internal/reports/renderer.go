package reports

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"image"
	_ "image/jpeg"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/pkg/imaging"
	"github.com/JaimeStill/iris/pkg/storage"
)

const (
	marginLeft   = 12.0
	marginTop    = 10.0
	marginBottom = 15.0
	photoSide    = 38.1
	tamilFamily  = "tamil"
)

const (
	brandDark     = "#1e1b4b"
	brandMuted    = "#64748b"
	accent        = "#0369a1"
	rule          = "#c7d2fe"
	lightBg       = "#eef2ff"
	stripe        = "#f8fafc"
	disclaimerRed = "#b91c1c"
	footerGrey    = "#94a3b8"
)

//go:embed fonts/unifont-tamil.ttf
var defaultFont []byte

// Options configures a Renderer. FontPath overrides the embedded Tamil font.
type Options struct {
	FontPath   string
	ModelLabel string
	Disclaimer string
	Location   *time.Location
	Now        func() time.Time
}

// Outcome is the result of a render attempt. Err is nil on success and
// Key then names the stored report.
type Outcome struct {
	Key   string
	Pages int
	Err   error
}

// OK reports whether the render succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Renderer lays out and stores PDF reports.
type Renderer struct {
	store  storage.System
	font   []byte
	opts   Options
	logger *slog.Logger
}

// New returns a Renderer writing to store. A FontPath that cannot be read is
// logged and the embedded font is used instead.
func New(opts Options, store storage.System, logger *slog.Logger) *Renderer {
	r := &Renderer{
		store:  store,
		font:   defaultFont,
		opts:   opts,
		logger: logger.With("system", "reports"),
	}

	if r.opts.Location == nil {
		r.opts.Location = time.UTC
	}
	if r.opts.Now == nil {
		r.opts.Now = time.Now
	}

	if opts.FontPath != "" {
		font, err := os.ReadFile(opts.FontPath)
		if err != nil {
			r.logger.Warn("tamil font unreadable, using embedded font", "path", opts.FontPath, "error", err)
		} else {
			r.font = font
		}
	}

	return r
}

// Render builds the report for doc and stores it under Key(doc.DetectionID).
// Failures are returned in the Outcome, never panicked or dropped.
func (r *Renderer) Render(ctx context.Context, doc Document) Outcome {
	data, err := r.Build(ctx, doc)
	if err != nil {
		r.logger.Warn("report render failed", "detection_id", doc.DetectionID, "error", err)
		return Outcome{Err: err}
	}

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		err = fmt.Errorf("%w: validate output: %w", ErrRenderFailed, err)
		r.logger.Warn("report render failed", "detection_id", doc.DetectionID, "error", err)
		return Outcome{Err: err}
	}

	key := Key(doc.DetectionID)
	if err := r.store.Upload(ctx, key, bytes.NewReader(data), "application/pdf"); err != nil {
		err = fmt.Errorf("%w: %w", ErrStoreFailed, err)
		r.logger.Warn("report store failed", "detection_id", doc.DetectionID, "error", err)
		return Outcome{Err: err}
	}

	r.logger.Info("report generated",
		"detection_id", doc.DetectionID,
		"key", key,
		"pages", pages,
		"bytes", len(data),
	)
	return Outcome{Key: key, Pages: pages}
}

// Build lays out doc and returns the PDF bytes. A missing or undecodable
// source image omits the photo.
func (r *Renderer) Build(ctx context.Context, doc Document) ([]byte, error) {
	now := r.opts.Now().In(r.opts.Location)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Eye Disease Screening Report "+doc.DetectionID, true)
	pdf.SetCreator("iris", true)

	pdf.AddUTF8FontFromBytes(tamilFamily, "", r.font)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()

	l.header()
	l.patient(doc, r.thumbnail(ctx, doc.ImageKey), now)
	l.band(doc)
	l.confidenceBar(doc.Confidence)
	l.probabilities(doc.Probabilities)
	for _, s := range Sections(doc) {
		l.section(s)
	}
	l.disclaimer(r.disclaimer(doc))
	l.footer(fmt.Sprintf(
		"Generated by Eye Disease Detection System | Report ID: %s | AI Model: %s | %s",
		doc.DetectionID, r.opts.ModelLabel, footerDate(now),
	))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) disclaimer(doc Document) string {
	if d := strings.TrimSpace(doc.Content.Disclaimer); d != "" {
		return d
	}
	return r.opts.Disclaimer
}

func (r *Renderer) thumbnail(ctx context.Context, key string) []byte {
	if key == "" {
		return nil
	}

	data, err := storage.ReadAll(ctx, r.store, key)
	if err != nil {
		r.logger.Warn("report image unavailable, photo omitted", "key", key, "error", err)
		return nil
	}

	thumb, err := imaging.Thumbnail(data, 300)
	if err != nil {
		r.logger.Warn("report image undecodable, photo omitted", "key", key, "error", err)
		return nil
	}
	return thumb
}

type layout struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (l *layout) width() float64 {
	w, _ := l.pdf.GetPageSize()
	return w - 2*marginLeft
}

func (l *layout) color(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func (l *layout) text(hex string) { l.pdf.SetTextColor(l.color(hex)) }
func (l *layout) fill(hex string) { l.pdf.SetFillColor(l.color(hex)) }
func (l *layout) draw(hex string) { l.pdf.SetDrawColor(l.color(hex)) }

func (l *layout) hr(hex string, thickness float64) {
	y := l.pdf.GetY()
	l.draw(hex)
	l.pdf.SetLineWidth(thickness)
	l.pdf.Line(marginLeft, y, marginLeft+l.width(), y)
	l.pdf.Ln(1.5)
}

func (l *layout) header() {
	l.pdf.SetFont("Helvetica", "B", 20)
	l.text(brandDark)
	l.pdf.CellFormat(0, 10, "Eye Disease Detection System", "", 1, "C", false, 0, "")

	l.pdf.SetFont("Helvetica", "", 9.5)
	l.text(brandMuted)
	l.pdf.CellFormat(0, 5, "AI-Powered Medical Screening Report", "", 1, "C", false, 0, "")

	l.pdf.Ln(2)
	l.hr(brandDark, 0.6)
	l.pdf.Ln(2)
}

func (l *layout) patient(doc Document, thumb []byte, now time.Time) {
	rows := [][2]string{
		{"Patient Name", doc.PatientName},
		{"Patient ID", doc.PatientID},
		{"Age / Gender", fmt.Sprintf("%d yrs / %s", doc.Age, genderLabel(doc.Gender))},
		{"Report Date", reportDate(now)},
	}

	top := l.pdf.GetY()
	x := marginLeft
	photoBottom := top

	if thumb != nil {
		if w, h, ok := l.photo(thumb, x, top); ok {
			x += max(w, photoSide) + 4
			photoBottom = top + h
		}
	}

	const rowHeight = 7.0
	labelWidth := 30.0
	valueWidth := marginLeft + l.width() - x - labelWidth

	l.draw(rule)
	l.pdf.SetLineWidth(0.2)
	for i, row := range rows {
		l.pdf.SetXY(x, top+float64(i)*rowHeight)
		l.pdf.SetFont("Helvetica", "B", 9.5)
		l.text(brandDark)
		l.fill(lightBg)
		l.pdf.CellFormat(labelWidth, rowHeight, l.tr(row[0]), "1", 0, "L", true, 0, "")
		l.pdf.SetFont("Helvetica", "", 9.5)
		l.pdf.CellFormat(valueWidth, rowHeight, l.tr(row[1]), "1", 0, "L", false, 0, "")
	}

	l.pdf.SetXY(marginLeft, max(top+float64(len(rows))*rowHeight, photoBottom))
	l.pdf.Ln(4)
}

// photo places the thumbnail inside a photoSide square, preserving aspect.
func (l *layout) photo(thumb []byte, x, y float64) (float64, float64, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, false
	}

	w, h := photoSide, photoSide
	if cfg.Width > cfg.Height {
		h = photoSide * float64(cfg.Height) / float64(cfg.Width)
	} else {
		w = photoSide * float64(cfg.Width) / float64(cfg.Height)
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	l.pdf.RegisterImageOptionsReader("photo", opts, bytes.NewReader(thumb))
	if !l.pdf.Ok() {
		l.pdf.ClearError()
		return 0, 0, false
	}
	l.pdf.ImageOptions("photo", x, y, w, h, false, opts, 0, "")
	return w, h, true
}

func (l *layout) band(doc Document) {
	cells := []string{
		"DETECTED: " + doc.Disease.DisplayName(),
		fmt.Sprintf("Confidence: %.1f%%", doc.Confidence),
		"Severity: " + string(doc.Severity),
	}

	l.fill(doc.Disease.Color())
	l.pdf.SetTextColor(255, 255, 255)
	l.pdf.SetFont("Helvetica", "B", 10)

	w := l.width() / float64(len(cells))
	for i, c := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		l.pdf.CellFormat(w, 10, l.tr(c), "", ln, "C", true, 0, "")
	}

	if doc.Severity.Valid() {
		l.fill(doc.Severity.Color())
		l.pdf.Rect(marginLeft, l.pdf.GetY(), l.width(), 1.2, "F")
		l.pdf.Ln(1.2)
	}
	l.pdf.Ln(4)
}

func (l *layout) confidenceBar(confidence float64) {
	const barWidth, barHeight = 60.0, 5.0

	c := min(max(confidence, 0), 100)
	barColor := "#3b82f6"
	switch {
	case c >= 85:
		barColor = "#dc2626"
	case c >= 70:
		barColor = "#f97316"
	}

	x, y := marginLeft, l.pdf.GetY()
	l.fill("#e0e7ff")
	l.pdf.Rect(x, y, barWidth, barHeight, "F")
	l.fill(barColor)
	l.pdf.Rect(x, y, barWidth*c/100, barHeight, "F")
	l.draw(footerGrey)
	l.pdf.SetLineWidth(0.3)
	l.pdf.Rect(x, y, barWidth, barHeight, "D")

	l.pdf.SetXY(x+barWidth+3, y)
	l.pdf.SetFont("Helvetica", "", 9)
	l.text(brandMuted)
	l.pdf.CellFormat(0, barHeight, fmt.Sprintf("Model confidence %.1f%%", c), "", 1, "L", false, 0, "")
	l.pdf.Ln(4)
}

func (l *layout) probabilities(probs disease.Probabilities) {
	l.title("Confidence & Severity Metrics", false)

	const row = 6.5
	nameWidth, valueWidth, barWidth := 40.0, 20.0, 60.0
	probs = probs.Complete()

	l.draw(rule)
	l.pdf.SetLineWidth(0.2)
	l.pdf.SetFont("Helvetica", "B", 9)
	l.text(brandDark)
	l.fill(lightBg)
	l.pdf.CellFormat(nameWidth, row, "Disease", "1", 0, "L", true, 0, "")
	l.pdf.CellFormat(valueWidth, row, "Probability", "1", 0, "R", true, 0, "")
	l.pdf.CellFormat(barWidth, row, "", "1", 1, "L", true, 0, "")

	l.pdf.SetFont("Helvetica", "", 9)
	for i, d := range disease.Classes {
		v := min(max(probs[d], 0), 100)
		filled := i%2 == 1
		l.fill(stripe)
		l.pdf.CellFormat(nameWidth, row, d.DisplayName(), "1", 0, "L", filled, 0, "")
		l.pdf.CellFormat(valueWidth, row, fmt.Sprintf("%.1f%%", v), "1", 0, "R", filled, 0, "")

		x, y := l.pdf.GetXY()
		l.pdf.CellFormat(barWidth, row, "", "1", 1, "L", filled, 0, "")
		if v > 0 {
			l.fill(d.Color())
			l.pdf.Rect(x+1, y+1.5, (barWidth-2)*v/100, row-3, "F")
		}
	}
	l.pdf.Ln(4)
}

func (l *layout) title(text string, tamil bool) {
	if tamil {
		l.pdf.SetFont(tamilFamily, "", 12)
		l.text(accent)
		l.pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
	} else {
		l.pdf.SetFont("Helvetica", "B", 12)
		l.text(accent)
		l.pdf.CellFormat(0, 7, l.tr(text), "", 1, "L", false, 0, "")
	}
	l.hr(rule, 0.3)
}

func (l *layout) section(s Section) {
	l.title(s.Title, s.Tamil)

	l.text("#1f2937")
	if s.Tamil {
		l.pdf.SetFont(tamilFamily, "", 10)
	} else {
		l.pdf.SetFont("Helvetica", "", 9.5)
	}

	for _, line := range s.Lines {
		if s.Bullet {
			line = "• " + line
		}
		if !s.Tamil {
			line = l.tr(line)
		}
		l.pdf.MultiCell(0, 5, line, "", "L", false)
	}
	l.pdf.Ln(3)
}

func (l *layout) disclaimer(text string) {
	l.pdf.Ln(3)
	l.hr("#ef4444", 0.8)
	l.pdf.SetFont("Helvetica", "", 7.5)
	l.text(disclaimerRed)
	l.pdf.MultiCell(0, 4, l.tr(text), "", "L", false)
	l.pdf.Ln(2)
}

func (l *layout) footer(text string) {
	l.pdf.SetFont("Helvetica", "", 7)
	l.text(footerGrey)
	l.pdf.MultiCell(0, 4, l.tr(text), "", "C", false)
}
