// internal/drafts/store.go
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "dealer-admin/internal/common/errors"
)

// Store persists drafts between step submissions.
type Store interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	// Save writes d if the stored version still equals d.Version and
	// advances d.Version. A stale version yields DRAFT_CONFLICT.
	Save(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id string) error
	// DeleteStale removes unfinished drafts last updated before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const draftColumns = `id, state, completed_steps, main_info, specs, seo, finalized_car_id, created_at, updated_at, version`

func (s *PostgresStore) Create(ctx context.Context, d *Draft) error {
	mainInfo, specs, seo, err := encodeSlices(d)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO car_drafts (`+draftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, string(d.State), pq.Array(stepNames(d.CompletedSteps)),
		mainInfo, specs, seo, nullString(d.FinalizedCarID),
		d.CreatedAt, d.UpdatedAt, d.Version,
	)
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError("create draft", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Draft, error) {
	var (
		d                    Draft
		state                string
		completed            []string
		mainInfo, specs, seo []byte
		finalizedCarID       sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT `+draftColumns+`
		FROM car_drafts
		WHERE id = $1`, id).Scan(
		&d.ID, &state, pq.Array(&completed),
		&mainInfo, &specs, &seo, &finalizedCarID,
		&d.CreatedAt, &d.UpdatedAt, &d.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewDraftNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("get draft", err)
	}

	d.State = Step(state)
	d.FinalizedCarID = finalizedCarID.String
	d.CompletedSteps = make([]Step, len(completed))
	for i, c := range completed {
		d.CompletedSteps[i] = Step(c)
	}
	if err := decodeSlice(mainInfo, &d.MainInfo); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("decode main info", err)
	}
	if err := decodeSlice(specs, &d.Specs); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("decode specs", err)
	}
	if err := decodeSlice(seo, &d.Seo); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("decode seo", err)
	}
	return &d, nil
}

func (s *PostgresStore) Save(ctx context.Context, d *Draft) error {
	mainInfo, specs, seo, err := encodeSlices(d)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE car_drafts
		SET state = $2, completed_steps = $3, main_info = $4, specs = $5, seo = $6,
		    finalized_car_id = $7, updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $9`,
		d.ID, string(d.State), pq.Array(stepNames(d.CompletedSteps)),
		mainInfo, specs, seo, nullString(d.FinalizedCarID), d.UpdatedAt, d.Version,
	)
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError("save draft", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError("rows affected", err)
	}
	// a deleted draft also lands here; the caller's re-read reports it
	if n == 0 {
		return apperrors.NewDraftConflictError(d.ID)
	}
	d.Version++
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM car_drafts WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError("delete draft", err)
	}
	return expectRow(res, id)
}

func (s *PostgresStore) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM car_drafts
		WHERE state <> $1 AND updated_at < $2`, string(StateComplete), cutoff)
	if err != nil {
		return 0, apperrors.NewDatabaseQueryFailedError("delete stale drafts", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewDatabaseQueryFailedError("delete stale drafts", err)
	}
	return n, nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError("rows affected", err)
	}
	if n == 0 {
		return apperrors.NewDraftNotFoundError(id)
	}
	return nil
}

func encodeSlices(d *Draft) (mainInfo, specs, seo []byte, err error) {
	if mainInfo, err = encodeSlice(d.MainInfo); err != nil {
		return nil, nil, nil, fmt.Errorf("encode main info: %w", err)
	}
	if specs, err = encodeSlice(d.Specs); err != nil {
		return nil, nil, nil, fmt.Errorf("encode specs: %w", err)
	}
	if seo, err = encodeSlice(d.Seo); err != nil {
		return nil, nil, nil, fmt.Errorf("encode seo: %w", err)
	}
	return mainInfo, specs, seo, nil
}

// encodeSlice maps a nil pointer to SQL NULL.
func encodeSlice[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func decodeSlice[T any](raw []byte, dst **T) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

func stepNames(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
