package patients

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/iris/pkg/pagination"
	"github.com/JaimeStill/iris/pkg/query"
	"github.com/JaimeStill/iris/pkg/repository"
	"github.com/JaimeStill/iris/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a patient repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "patients"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Patient], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "ID", "Phone", "Email")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	patients, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPatient)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}

	result := pagination.NewPageResult(patients, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Patient, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPatient)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Count(ctx context.Context) (int, error) {
	q, args := query.NewBuilder(projection).BuildCount()
	n, err := repository.Count(ctx, r.db, q, args...)
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

type getOrCreateResult struct {
	patient Patient
	created bool
}

func (r *repo) GetOrCreate(ctx context.Context, cmd GetOrCreateCommand) (*Patient, bool, error) {
	cmd.Normalize()

	qb := query.
		NewBuilder(projection, oldestFirst).
		WhereEquals("Name", cmd.Name)
	lookupSQL, lookupArgs := qb.BuildPage(1, 1)

	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (getOrCreateResult, error) {
		existing, err := repository.QueryMany(ctx, tx, lookupSQL, lookupArgs, scanPatient)
		if err != nil {
			return getOrCreateResult{}, err
		}

		if len(existing) > 0 {
			p := existing[0]
			if p.Backfill(cmd) {
				if err := repository.ExecExpectOne(
					ctx, tx,
					"UPDATE patients SET age = $2 WHERE id = $1",
					p.ID, p.Age,
				); err != nil {
					return getOrCreateResult{}, err
				}
			}
			return getOrCreateResult{patient: p}, nil
		}

		q := `
			INSERT INTO patients(id, name, age, gender, phone, email)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, name, age, gender, phone, email, created_at`

		p, err := repository.QueryOne(ctx, tx, q, []any{
			NewID(),
			cmd.Name,
			cmd.Age,
			cmd.Gender,
			cmd.Phone,
			cmd.Email,
		}, scanPatient)
		if err != nil {
			return getOrCreateResult{}, err
		}
		return getOrCreateResult{patient: p, created: true}, nil
	})

	if err != nil {
		return nil, false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if res.created {
		r.logger.Info("patient created", "id", res.patient.ID, "name", res.patient.Name)
	}
	return &res.patient, res.created, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	keys, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		keys, err := repository.QueryMany(
			ctx, tx,
			`SELECT image_key FROM detections WHERE patient_id = $1
			 UNION ALL
			 SELECT report_key FROM detections WHERE patient_id = $1 AND report_key IS NOT NULL`,
			[]any{id},
			scanKey,
		)
		if err != nil {
			return nil, err
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM patients WHERE id = $1",
			id,
		); err != nil {
			return nil, err
		}
		return keys, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range keys {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", key,
				"error", delErr,
			)
		}
	}

	r.logger.Info("patient deleted", "id", id, "objects", len(keys))
	return nil
}

func scanKey(s repository.Scanner) (string, error) {
	var key string
	err := s.Scan(&key)
	return key, err
}
