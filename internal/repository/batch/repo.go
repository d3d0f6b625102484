package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/dkochetov/imgset/internal/model"
)

var ErrBatchNotFound = errors.New("batch not found")

// Repository provides CRUD operations for batch records in the database.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new Repository with the given DB connection.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// CreateBatch inserts a new pending batch record and returns its UUID.
func (r *Repository) CreateBatch(ctx context.Context, b model.Batch) (uuid.UUID, error) {
	query := `
		INSERT INTO batches (filename, source_path, source_type, spec, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
   `

	specJSON, err := json.Marshal(b.Spec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal batch spec: %w", err)
	}

	var id uuid.UUID
	err = r.db.QueryRowContext(
		ctx, query, b.Filename, b.SourcePath, b.SourceType, specJSON, model.StatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create: failed to save batch: %w", err)
	}

	return id, nil
}

// GetBatch retrieves a batch record by ID from the database.
func (r *Repository) GetBatch(ctx context.Context, id uuid.UUID) (model.Batch, error) {
	query := `
		SELECT filename, source_path, source_type, spec, status, results, error, created_at, updated_at
		FROM batches
		WHERE id = $1
    `

	var (
		b           model.Batch
		specJSON    []byte
		resultsJSON []byte
		errMsg      sql.NullString
	)

	b.ID = id
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.Filename, &b.SourcePath, &b.SourceType, &specJSON,
		&b.Status, &resultsJSON, &errMsg, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Batch{}, ErrBatchNotFound
	}
	if err != nil {
		return model.Batch{}, fmt.Errorf("get: failed to query batch: %w", err)
	}

	if err := json.Unmarshal(specJSON, &b.Spec); err != nil {
		return model.Batch{}, fmt.Errorf("get: failed to unmarshal batch spec: %w", err)
	}
	if resultsJSON != nil {
		if err := json.Unmarshal(resultsJSON, &b.Results); err != nil {
			return model.Batch{}, fmt.Errorf("get: failed to unmarshal batch results: %w", err)
		}
	}
	b.Error = errMsg.String

	return b, nil
}

// MarkDone stores the results of a completed batch and flips its status.
func (r *Repository) MarkDone(ctx context.Context, id uuid.UUID, results model.BatchResult) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal batch results: %w", err)
	}

	query := `
		UPDATE batches
		SET status = $2, results = $3, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, model.StatusDone, resultsJSON); err != nil {
		return fmt.Errorf("failed to mark batch done: %w", err)
	}

	return nil
}

// MarkFailed records the batch's first error and flips its status.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE batches
		SET status = $2, error = $3, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, model.StatusFailed, errMsg); err != nil {
		return fmt.Errorf("failed to mark batch failed: %w", err)
	}

	return nil
}

// DeleteBatch removes a batch record by ID.
func (r *Repository) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrBatchNotFound
	}

	return nil
}
