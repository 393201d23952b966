// Package pipeline sequences one image→code generation run: ingest, durable
// upload, synthesis and persistence, with the transient asset released on
// every exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"uigenie/internal/domain"
	"uigenie/internal/storage"
)

// AssetStore holds the request-scoped local copy of an upload.
type AssetStore interface {
	Acquire(ctx context.Context, filename string, r io.Reader) (*storage.Asset, error)
	Release(asset *storage.Asset)
}

// ObjectStore uploads an asset to durable storage.
type ObjectStore interface {
	Missing() []string
	Upload(ctx context.Context, asset *storage.Asset) (string, error)
}

// Synthesizer produces source code for an asset.
type Synthesizer interface {
	Missing() []string
	Generate(ctx context.Context, asset *storage.Asset) (string, error)
}

// ResultStore persists the completed record.
type ResultStore interface {
	Create(ctx context.Context, imageURL, generatedCode, ownerID string) (*domain.Generation, error)
}

// Request is one inbound upload. File is nil when no image was attached.
type Request struct {
	OwnerID   string
	RequestID string
	Filename  string
	File      io.Reader
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers fn to receive every state transition.
func WithObserver(fn func(Transition)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// Orchestrator runs pipelines. It holds only immutable handles and is safe
// for concurrent use.
type Orchestrator struct {
	assets  AssetStore
	objects ObjectStore
	synth   Synthesizer
	results ResultStore
	logger  zerolog.Logger
	observe func(Transition)
}

// New wires the orchestrator from handles built once at startup.
func New(assets AssetStore, objects ObjectStore, synth Synthesizer, results ResultStore, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		assets:  assets,
		objects: objects,
		synth:   synth,
		results: results,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one pipeline. On failure the returned error is a *domain.Error
// carrying the failing stage, or domain.ErrUnauthorized when no principal was
// resolved. No record is returned unless every stage succeeded.
func (o *Orchestrator) Run(ctx context.Context, req Request) (gen *domain.Generation, err error) {
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, domain.ErrUnauthorized
	}
	j := o.newJob(req)
	if req.File == nil || strings.TrimSpace(req.Filename) == "" {
		return nil, j.fail(domain.ValidationError("No image file uploaded"))
	}

	asset, err := o.assets.Acquire(ctx, req.Filename, req.File)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyAsset) {
			return nil, j.fail(domain.ValidationError("Uploaded image is empty"))
		}
		return nil, j.fail(domain.UnknownError("failed to receive upload", err).WithStage(domain.StageIngest))
	}
	j.log.Debug().Str("asset_id", asset.ID).Int64("bytes", asset.Size).Msg("upload received")

	defer func() {
		if r := recover(); r != nil {
			j.log.Error().Interface("panic", r).Msg("pipeline panicked")
			gen = nil
			err = j.fail(domain.UnknownError(fmt.Sprintf("unexpected fault: %v", r), nil).WithStage(j.state.stage()))
		}
		o.assets.Release(asset)
	}()

	// Once ingest is done the run goes to completion even if the client leaves.
	return o.process(context.WithoutCancel(ctx), j, asset)
}

func (o *Orchestrator) process(ctx context.Context, j *job, asset *storage.Asset) (*domain.Generation, error) {
	if miss := o.objects.Missing(); len(miss) > 0 {
		return nil, j.fail(domain.ConfigurationError(miss...).WithStage(domain.StageStorage))
	}
	if miss := o.synth.Missing(); len(miss) > 0 {
		return nil, j.fail(domain.ConfigurationError(miss...).WithStage(domain.StageSynthesis))
	}

	if err := j.advance(StateUploading); err != nil {
		return nil, err
	}
	imageURL, err := o.objects.Upload(ctx, asset)
	if err != nil {
		return nil, j.fail(classified(err, func(e error) *domain.Error {
			return domain.StorageError("durable upload failed", e)
		}).WithStage(domain.StageStorage))
	}

	if err := j.advance(StateSynthesizing); err != nil {
		return nil, err
	}
	code, err := o.synth.Generate(ctx, asset)
	if err != nil {
		return nil, j.fail(classified(err, func(e error) *domain.Error {
			return domain.SynthesisError(domain.CategoryUnknown, "Gemini API error: "+e.Error(), e)
		}).WithStage(domain.StageSynthesis))
	}

	if err := j.advance(StatePersisting); err != nil {
		return nil, err
	}
	gen, err := o.results.Create(ctx, imageURL, code, j.req.OwnerID)
	if err != nil {
		// The uploaded object stays behind without a record.
		j.log.Error().Err(err).Str("orphan_image_url", imageURL).Msg("record not saved after upload")
		return nil, j.fail(domain.StorageError("failed to save generation", err).WithStage(domain.StagePersistence))
	}

	if err := j.advance(StateCompleted); err != nil {
		return nil, err
	}
	return gen, nil
}

// classified keeps an adapter's structured error and wraps anything else.
func classified(err error, wrap func(error) *domain.Error) *domain.Error {
	if de, ok := domain.AsError(err); ok {
		return de
	}
	return wrap(err)
}

type job struct {
	req     Request
	state   State
	log     zerolog.Logger
	observe func(Transition)
}

func (o *Orchestrator) newJob(req Request) *job {
	return &job{
		req:     req,
		state:   StateReceived,
		log:     o.logger.With().Str("request_id", req.RequestID).Str("owner_id", req.OwnerID).Logger(),
		observe: o.observe,
	}
}

// advance moves one step forward. An illegal move fails the run as unknown.
func (j *job) advance(to State) error {
	if err := canTransition(j.state, to); err != nil {
		return j.fail(domain.UnknownError("invalid pipeline state", err).WithStage(j.state.stage()))
	}
	j.emit(to, nil)
	return nil
}

func (j *job) fail(de *domain.Error) error {
	if j.state.Terminal() {
		return de
	}
	j.emit(StateFailed, de)
	return de
}

func (j *job) emit(to State, de *domain.Error) {
	from := j.state
	j.state = to

	evt := j.log.Info()
	if de != nil {
		evt = j.log.Warn().Str("kind", string(de.Kind)).Str("stage", string(de.Stage))
		if de.Category != "" {
			evt = evt.Str("category", string(de.Category))
		}
		if de.Err != nil {
			evt = evt.AnErr("cause", de.Err)
		}
	} else {
		evt = evt.Str("stage", string(to.stage()))
	}
	evt.Str("from", string(from)).Str("to", string(to)).Msg("pipeline transition")

	if j.observe != nil {
		j.observe(Transition{RequestID: j.req.RequestID, OwnerID: j.req.OwnerID, From: from, To: to, Err: de})
	}
}
