package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/dkochetov/imgset/internal/codec"
	"github.com/dkochetov/imgset/internal/model"
)

// fileStorage defines the storage operations the service needs.
type fileStorage interface {
	Upload(ctx context.Context, subdir, filename string, data []byte, contentType string) (string, error)
	Load(ctx context.Context, objectPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectPath string) error
}

// producer defines the interface for enqueueing tasks into a message broker.
type producer interface {
	Produce(ctx context.Context, task model.Task) error
}

// repository defines the persistence operations for batch records.
type repository interface {
	CreateBatch(ctx context.Context, b model.Batch) (uuid.UUID, error)
	GetBatch(ctx context.Context, id uuid.UUID) (model.Batch, error)
	MarkDone(ctx context.Context, id uuid.UUID, results model.BatchResult) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	DeleteBatch(ctx context.Context, id uuid.UUID) error
}

// orchestrator runs the full variant fan-out for one source image.
type orchestrator interface {
	Run(ctx context.Context, source model.SourceImage, spec model.BatchSpec) (model.BatchResult, error)
}

// Defaults are deployment-wide fallbacks applied to submitted batch specs.
type Defaults struct {
	NameTemplate  string
	OmitExtension bool
	ColorPad      string
}

// Service provides the business logic for batch operations: it accepts an
// uploaded source, records the batch, enqueues processing, and later runs
// the variant fan-out when the queue delivers the task.
type Service struct {
	fileStorage  fileStorage
	producer     producer
	repo         repository
	orchestrator orchestrator
	sourceSubdir string
	defaults     Defaults
}

// NewService creates a new Service with the given collaborators.
func NewService(fs fileStorage, p producer, r repository, o orchestrator, sourceSubdir string, d Defaults) *Service {
	return &Service{
		fileStorage:  fs,
		producer:     p,
		repo:         r,
		orchestrator: o,
		sourceSubdir: sourceSubdir,
		defaults:     d,
	}
}

// applyDefaults fills batch-level fields the client left empty.
func (s *Service) applyDefaults(spec model.BatchSpec) model.BatchSpec {
	if spec.DefaultNameTemplate == "" {
		spec.DefaultNameTemplate = s.defaults.NameTemplate
	}
	if spec.ColorPad == "" {
		spec.ColorPad = s.defaults.ColorPad
	}
	if s.defaults.OmitExtension {
		spec.OmitExtension = true
	}
	return spec
}

// CreateBatch stores the uploaded source image, persists a pending batch
// record and enqueues it for asynchronous processing. The source's image
// type must be derivable and the spec must name at least one variant.
func (s *Service) CreateBatch(ctx context.Context, filename string, file io.Reader, spec model.BatchSpec) (uuid.UUID, error) {
	spec = s.applyDefaults(spec)
	if err := spec.Validate(); err != nil {
		return uuid.Nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create batch: failed to read source: %w", err)
	}

	sourceType := codec.DetectType(data, filename)
	if sourceType == "" {
		return uuid.Nil, fmt.Errorf("create batch: %w", model.ErrUnknownSourceType)
	}

	path, err := s.fileStorage.Upload(ctx, s.sourceSubdir, filename, data, codec.ContentType(sourceType))
	if err != nil {
		return uuid.Nil, fmt.Errorf("create batch: failed to save source: %w", err)
	}

	id, err := s.repo.CreateBatch(ctx, model.Batch{
		Filename:   filename,
		SourcePath: path,
		SourceType: sourceType,
		Spec:       spec,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create batch: failed to save record: %w", err)
	}

	task := model.Task{
		BatchID:    id,
		Filename:   filename,
		SourcePath: path,
		SourceType: sourceType,
		Spec:       spec,
	}
	if err := s.producer.Produce(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("create batch: failed to enqueue task: %w", err)
	}

	return id, nil
}

// GetBatch returns the batch record with its status and any results.
func (s *Service) GetBatch(ctx context.Context, id uuid.UUID) (model.Batch, error) {
	return s.repo.GetBatch(ctx, id)
}

// DeleteBatch removes the batch record and its stored source image.
func (s *Service) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return err
	}

	if err := s.fileStorage.Delete(ctx, b.SourcePath); err != nil {
		// The record is still removed; orphaned objects are reclaimed separately.
		zlog.Logger.Err(err).Str("path", b.SourcePath).Msg("failed to delete source object")
	}

	return s.repo.DeleteBatch(ctx, id)
}

// ProcessTask loads the stored source and runs the variant fan-out,
// persisting either the full result map or the batch's first error.
func (s *Service) ProcessTask(ctx context.Context, task model.Task) error {
	reader, err := s.fileStorage.Load(ctx, task.SourcePath)
	if err != nil {
		return fmt.Errorf("process task: failed to load source: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("process task: failed to read source: %w", err)
	}

	source := model.SourceImage{Data: data, Type: task.SourceType}

	results, err := s.orchestrator.Run(ctx, source, task.Spec)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, task.BatchID, err.Error()); markErr != nil {
			return fmt.Errorf("process task: failed to record error: %w", markErr)
		}
		return fmt.Errorf("process task: batch failed: %w", err)
	}

	if err := s.repo.MarkDone(ctx, task.BatchID, results); err != nil {
		return fmt.Errorf("process task: failed to record results: %w", err)
	}

	return nil
}
