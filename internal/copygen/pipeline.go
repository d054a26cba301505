package copygen

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Source tells which path produced a CopyResult.
type Source string

const (
	SourceModel    Source = "model"
	SourceTemplate Source = "template"
)

// Model returns an untyped candidate for the copy schema.
type Model interface {
	Call(ctx context.Context, prompt string) (any, error)
}

// Recorder receives pipeline outcomes. Implemented by the metrics package.
type Recorder interface {
	ObserveModelCall(d time.Duration, err error)
	ObserveGeneration(source Source)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout bounds each model call. Expiry falls back to the template.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger used to report discarded model failures.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder attaches a metrics sink.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// Pipeline generates copy through the model and falls back to Template on any failure.
// It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	model    Model
	settings Settings
	timeout  time.Duration
	logger   *zap.Logger
	recorder Recorder
}

// NewPipeline creates a pipeline. model may be nil, in which case every call uses the template.
func NewPipeline(model Model, settings Settings, opts ...Option) *Pipeline {
	p := &Pipeline{
		model:    model,
		settings: settings,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Settings returns the rendering settings shared by the prompt and the template.
func (p *Pipeline) Settings() Settings { return p.settings }

// Generate always returns a CopyResult with three non-empty fields for well-formed events.
func (p *Pipeline) Generate(ctx context.Context, ev EventData) CopyResult {
	res, _ := p.GenerateWithSource(ctx, ev)
	return res
}

// GenerateWithSource is Generate that also reports which path produced the result.
func (p *Pipeline) GenerateWithSource(ctx context.Context, ev EventData) (CopyResult, Source) {
	res, err := p.fromModel(ctx, ev)
	if err == nil {
		p.observe(SourceModel)
		return res, SourceModel
	}
	p.logger.Warn("model copy unavailable, using template",
		zap.String("kind", ErrorKind(err)),
		zap.String("title", ev.Title),
		zap.Error(err),
	)
	p.observe(SourceTemplate)
	return Template(ev, p.settings), SourceTemplate
}

func (p *Pipeline) fromModel(ctx context.Context, ev EventData) (CopyResult, error) {
	if p.model == nil {
		return CopyResult{}, ErrConfiguration
	}
	prompt := BuildPrompt(ev, p.settings)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	candidate, err := p.model.Call(callCtx, prompt)
	if err == nil && callCtx.Err() != nil {
		err = callCtx.Err()
	}
	if err == nil {
		var res CopyResult
		res, err = Decode(candidate)
		if err == nil {
			p.observeCall(time.Since(start), nil)
			return res, nil
		}
	}
	p.observeCall(time.Since(start), err)
	return CopyResult{}, err
}

func (p *Pipeline) observe(source Source) {
	if p.recorder != nil {
		p.recorder.ObserveGeneration(source)
	}
}

func (p *Pipeline) observeCall(d time.Duration, err error) {
	if p.recorder != nil {
		p.recorder.ObserveModelCall(d, err)
	}
}
