package detections

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/internal/reports"
	"github.com/JaimeStill/iris/internal/workflow"
	"github.com/JaimeStill/iris/pkg/pagination"
	"github.com/JaimeStill/iris/pkg/query"
	"github.com/JaimeStill/iris/pkg/repository"
	"github.com/JaimeStill/iris/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	patients   patients.System
	runtime    *workflow.Runtime
	renderer   Renderer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a detection repository implementing the System interface.
func New(
	db *sql.DB,
	patients patients.System,
	rt *workflow.Runtime,
	renderer Renderer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    rt.Storage,
		patients:   patients,
		runtime:    rt,
		renderer:   renderer,
		logger:     logger.With("system", "detections"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64, basePath string) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize, basePath)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Detection], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "PatientName", "PatientID", "ID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count detections: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	detections, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, r.scanDetection)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}

	result := pagination.NewPageResult(detections, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) ListByPatient(
	ctx context.Context,
	patientID string,
	page pagination.PageRequest,
) (*pagination.PageResult[Detection], error) {
	if _, err := r.patients.Find(ctx, patientID); err != nil {
		return nil, err
	}
	return r.List(ctx, page, Filters{PatientID: &patientID})
}

func (r *repo) Find(ctx context.Context, id string) (*Detection, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, r.scanDetection)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) View(ctx context.Context, id string) (*View, error) {
	d, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := r.patients.Find(ctx, d.PatientID)
	if err != nil {
		r.logger.Warn("patient lookup failed", "detection", id, "error", err)
		p = nil
	}

	v := NewView(*d, p)
	return &v, nil
}

func (r *repo) Upload(ctx context.Context, cmd UploadCommand) (*Detection, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrNoImage
	}

	upload := workflow.Upload{
		Key:         workflow.UploadKey(time.Now(), cmd.ContentType),
		ContentType: cmd.ContentType,
		Data:        cmd.Data,
	}

	result, err := workflow.Execute(ctx, r.runtime, upload, workflow.StageAssess)
	if err != nil {
		r.retain(upload.Key, err)
		return nil, err
	}

	patient, created, err := r.patients.GetOrCreate(ctx, cmd.Patient)
	if err != nil {
		r.retain(result.ImageKey, err)
		return nil, fmt.Errorf("resolve patient: %w", err)
	}

	d, err := r.insert(ctx, patient, result)
	if err != nil {
		r.retain(result.ImageKey, err)
		return nil, err
	}

	r.logger.Info(
		"detection recorded",
		"id", d.ID,
		"patient", patient.ID,
		"new_patient", created,
		"disease", d.Disease,
		"confidence", d.Confidence,
		"severity", d.Severity,
		"content_source", d.ContentSource,
	)

	if err := r.attachReport(ctx, d, patient); err != nil {
		r.logger.Warn("report generation failed", "id", d.ID, "error", err)
	}

	return d, nil
}

func (r *repo) Snapshot(ctx context.Context, data []byte, contentType string) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	upload := workflow.Upload{
		Key:         workflow.SnapshotKey(),
		ContentType: contentType,
		Data:        data,
	}

	result, err := workflow.Execute(ctx, r.runtime, upload, workflow.StageClassify)
	if err != nil {
		return nil, err
	}

	p := result.Prediction
	return &Snapshot{
		Disease:       p.Disease,
		DiseaseName:   p.Disease.DisplayName(),
		Confidence:    p.Confidence,
		Severity:      p.Severity,
		Probabilities: p.Probabilities,
	}, nil
}

func (r *repo) Report(ctx context.Context, id string) (*Report, error) {
	d, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.ReportKey != nil {
		data, err := storage.ReadAll(ctx, r.storage, *d.ReportKey)
		if err == nil {
			return &Report{Filename: reports.Filename(d.ID), Data: data}, nil
		}
		r.logger.Warn("stored report unreadable, regenerating", "id", id, "key", *d.ReportKey, "error", err)
	}

	patient, err := r.patients.Find(ctx, d.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportUnavailable, err)
	}

	if err := r.attachReport(ctx, d, patient); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportUnavailable, err)
	}

	data, err := storage.ReadAll(ctx, r.storage, *d.ReportKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportUnavailable, err)
	}

	return &Report{Filename: reports.Filename(d.ID), Data: data}, nil
}

func (r *repo) Regenerate(ctx context.Context, id string) (*Detection, error) {
	d, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	patient, err := r.patients.Find(ctx, d.PatientID)
	if err != nil {
		return nil, err
	}

	if err := r.attachReport(ctx, d, patient); err != nil {
		return nil, fmt.Errorf("regenerate report: %w", err)
	}
	return d, nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	qb := query.NewBuilder(projection, defaultSort)

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count detections: %w", err)
	}

	patientTotal, err := r.patients.Count(ctx)
	if err != nil {
		return nil, err
	}

	diseaseSQL, diseaseArgs := qb.BuildGroupCount("Disease")
	byDisease, err := repository.QueryMany(ctx, r.db, diseaseSQL, diseaseArgs, scanTally)
	if err != nil {
		return nil, fmt.Errorf("count by disease: %w", err)
	}

	severitySQL, severityArgs := qb.BuildGroupCount("Severity")
	bySeverity, err := repository.QueryMany(ctx, r.db, severitySQL, severityArgs, scanTally)
	if err != nil {
		return nil, fmt.Errorf("count by severity: %w", err)
	}

	recentSQL, recentArgs := qb.BuildPage(1, RecentLimit)
	recent, err := repository.QueryMany(ctx, r.db, recentSQL, recentArgs, r.scanDetection)
	if err != nil {
		return nil, fmt.Errorf("query recent detections: %w", err)
	}

	now := time.Now()
	monthly, err := repository.QueryMany(
		ctx, r.db,
		`SELECT to_char(date_trunc('month', created_at), 'YYYY-MM'), COUNT(*)
		 FROM detections
		 WHERE created_at >= $1
		 GROUP BY 1
		 ORDER BY 1`,
		[]any{trendStart(now, TrendMonths)},
		scanTally,
	)
	if err != nil {
		return nil, fmt.Errorf("count by month: %w", err)
	}

	counts := make(map[string]int, len(monthly))
	for _, m := range monthly {
		counts[m.Key] = m.Count
	}

	return &Stats{
		TotalDetections: total,
		TotalPatients:   patientTotal,
		ByDisease:       diseaseTallies(byDisease),
		BySeverity:      severityTallies(bySeverity),
		Recent:          recent,
		Monthly:         Monthly(counts, now, TrendMonths),
	}, nil
}

func (r *repo) insert(ctx context.Context, patient *patients.Patient, result *workflow.Result) (*Detection, error) {
	d := Detection{
		ID:            NewID(),
		PatientID:     patient.ID,
		PatientName:   patient.Name,
		ImageKey:      result.ImageKey,
		Disease:       result.Prediction.Disease,
		Confidence:    result.Prediction.Confidence,
		Severity:      result.Prediction.Severity,
		Content:       result.Content,
		ContentSource: result.ContentSource,
		Probabilities: result.Prediction.Probabilities,
	}

	probs, err := encodeProbabilities(d.Probabilities)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO detections(
			id, patient_id, image_key, disease, confidence, severity,
			english_explanation, tamil_explanation, symptoms, causes, treatment, prevention, disclaimer,
			probabilities, content_source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`

	created, err := repository.QueryOne(ctx, r.db, q, []any{
		d.ID,
		d.PatientID,
		d.ImageKey,
		string(d.Disease),
		d.Confidence,
		string(d.Severity),
		d.Content.English,
		d.Content.Tamil,
		d.Content.Symptoms,
		d.Content.Causes,
		d.Content.Treatment,
		d.Content.Prevention,
		d.Content.Disclaimer,
		probs,
		string(d.ContentSource),
	}, scanTime)
	if err != nil {
		return nil, repository.MapError(err, patients.ErrNotFound, ErrDuplicate)
	}

	d.CreatedAt = created
	return &d, nil
}

// attachReport renders the report for d and records its key. d.ReportKey is
// updated only when the report was stored.
func (r *repo) attachReport(ctx context.Context, d *Detection, patient *patients.Patient) error {
	outcome := r.renderer.Render(ctx, document(d, patient))
	if !outcome.OK() {
		return outcome.Err
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE detections SET report_key = $2 WHERE id = $1",
		d.ID, outcome.Key,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	key := outcome.Key
	d.ReportKey = &key

	r.logger.Info("report stored", "id", d.ID, "key", key, "pages", outcome.Pages)
	return nil
}

// retain records a failed upload whose source image stays in storage.
func (r *repo) retain(key string, err error) {
	r.logger.Warn("detection failed, source image retained", "image_key", key, "error", err)
}

func document(d *Detection, patient *patients.Patient) reports.Document {
	doc := reports.Document{
		DetectionID:   d.ID,
		PatientName:   d.PatientName,
		PatientID:     d.PatientID,
		ImageKey:      d.ImageKey,
		Disease:       d.Disease,
		Confidence:    d.Confidence,
		Severity:      d.Severity,
		Probabilities: d.Probabilities,
		Content:       d.Content,
	}

	if patient != nil {
		doc.PatientName = patient.Name
		doc.Age = patient.Age
		doc.Gender = string(patient.Gender)
	}
	return doc
}

func scanTime(s repository.Scanner) (time.Time, error) {
	var t time.Time
	err := s.Scan(&t)
	return t, err
}
