package batch

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkochetov/imgset/internal/model"
)

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, subdir, filename string, data []byte, _ string) (string, error) {
	path := subdir + "/" + filename
	s.objects[path] = data
	return path, nil
}

func (s *fakeStorage) Load(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.objects[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	delete(s.objects, path)
	return nil
}

type fakeProducer struct {
	tasks []model.Task
	err   error
}

func (p *fakeProducer) Produce(_ context.Context, task model.Task) error {
	if p.err != nil {
		return p.err
	}
	p.tasks = append(p.tasks, task)
	return nil
}

type fakeRepo struct {
	batches map[uuid.UUID]model.Batch
	done    map[uuid.UUID]model.BatchResult
	failed  map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		batches: make(map[uuid.UUID]model.Batch),
		done:    make(map[uuid.UUID]model.BatchResult),
		failed:  make(map[uuid.UUID]string),
	}
}

func (r *fakeRepo) CreateBatch(_ context.Context, b model.Batch) (uuid.UUID, error) {
	id := uuid.New()
	b.ID = id
	r.batches[id] = b
	return id, nil
}

func (r *fakeRepo) GetBatch(_ context.Context, id uuid.UUID) (model.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return model.Batch{}, errors.New("batch not found")
	}
	return b, nil
}

func (r *fakeRepo) MarkDone(_ context.Context, id uuid.UUID, results model.BatchResult) error {
	r.done[id] = results
	return nil
}

func (r *fakeRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.failed[id] = errMsg
	return nil
}

func (r *fakeRepo) DeleteBatch(_ context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

type fakeOrchestrator struct {
	results model.BatchResult
	err     error
	sources []model.SourceImage
}

func (o *fakeOrchestrator) Run(_ context.Context, source model.SourceImage, _ model.BatchSpec) (model.BatchResult, error) {
	o.sources = append(o.sources, source)
	if o.err != nil {
		return nil, o.err
	}
	return o.results, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := imaging.New(16, 16, color.White)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestService(fs *fakeStorage, p *fakeProducer, r *fakeRepo, o *fakeOrchestrator) *Service {
	return NewService(fs, p, r, o, "original", Defaults{NameTemplate: "{{.name}}", ColorPad: "white"})
}

func TestCreateBatch(t *testing.T) {
	fs := newFakeStorage()
	p := &fakeProducer{}
	r := newFakeRepo()
	svc := newTestService(fs, p, r, &fakeOrchestrator{})

	spec := model.BatchSpec{Variants: []model.VariantSpec{{Name: "thumb"}}}
	id, err := svc.CreateBatch(context.Background(), "photo.png", bytes.NewReader(pngBytes(t)), spec)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	// The source was stored and the queue received one task.
	require.Contains(t, fs.objects, "original/photo.png")
	require.Len(t, p.tasks, 1)
	require.Equal(t, id, p.tasks[0].BatchID)
	require.Equal(t, "png", p.tasks[0].SourceType)

	// Deployment defaults were applied to the spec.
	require.Equal(t, "{{.name}}", p.tasks[0].Spec.DefaultNameTemplate)
	require.Equal(t, "white", p.tasks[0].Spec.ColorPad)
}

func TestCreateBatchRejectsEmptyVariants(t *testing.T) {
	svc := newTestService(newFakeStorage(), &fakeProducer{}, newFakeRepo(), &fakeOrchestrator{})

	_, err := svc.CreateBatch(context.Background(), "photo.png", bytes.NewReader(pngBytes(t)), model.BatchSpec{})
	require.ErrorIs(t, err, model.ErrNoVariants)
}

func TestCreateBatchRejectsUnknownType(t *testing.T) {
	svc := newTestService(newFakeStorage(), &fakeProducer{}, newFakeRepo(), &fakeOrchestrator{})

	spec := model.BatchSpec{Variants: []model.VariantSpec{{Name: "thumb"}}}
	_, err := svc.CreateBatch(context.Background(), "notes", bytes.NewReader([]byte("plain text")), spec)
	require.ErrorIs(t, err, model.ErrUnknownSourceType)
}

func TestProcessTask(t *testing.T) {
	fs := newFakeStorage()
	fs.objects["original/photo.png"] = pngBytes(t)

	r := newFakeRepo()
	o := &fakeOrchestrator{results: model.BatchResult{
		"thumb": {URL: "https://cdn.test/variants/thumb.png", Filename: "thumb.png"},
	}}
	svc := newTestService(fs, &fakeProducer{}, r, o)

	id := uuid.New()
	task := model.Task{
		BatchID:    id,
		SourcePath: "original/photo.png",
		SourceType: "png",
		Spec:       model.BatchSpec{Variants: []model.VariantSpec{{Name: "thumb"}}},
	}

	require.NoError(t, svc.ProcessTask(context.Background(), task))
	require.Contains(t, r.done, id)
	require.Len(t, o.sources, 1)
	require.Equal(t, "png", o.sources[0].Type)
}

func TestProcessTaskRecordsFailure(t *testing.T) {
	fs := newFakeStorage()
	fs.objects["original/photo.png"] = pngBytes(t)

	r := newFakeRepo()
	o := &fakeOrchestrator{err: errors.New("bucket unavailable")}
	svc := newTestService(fs, &fakeProducer{}, r, o)

	id := uuid.New()
	task := model.Task{
		BatchID:    id,
		SourcePath: "original/photo.png",
		SourceType: "png",
		Spec:       model.BatchSpec{Variants: []model.VariantSpec{{Name: "thumb"}}},
	}

	require.Error(t, svc.ProcessTask(context.Background(), task))
	require.Equal(t, "bucket unavailable", r.failed[id])
}
