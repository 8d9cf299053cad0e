package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/core/recognize"
)

// Result is the outcome of one pipeline run.
type Result struct {
	Source   string
	ImageURI string
	Text     string
	// History is the list after the result was recorded.
	History []history.Item
}

// Pipeline runs acquire, recognize and record behind a single-flight gate.
type Pipeline struct {
	gate       Gate
	recognizer recognize.Recognizer
	history    *history.Store
	log        zerolog.Logger
}

// NewPipeline creates a pipeline that records results in hist.
func NewPipeline(rec recognize.Recognizer, hist *history.Store, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		recognizer: rec,
		history:    hist,
		log:        log,
	}
}

// Status reports whether a capture is in flight.
func (p *Pipeline) Status() State {
	return p.gate.State()
}

// Run acquires an image from src, recognizes its text and appends the result
// to history. Cancellation returns ErrCancelled. If recording fails the
// recognized text is still returned along with the error.
func (p *Pipeline) Run(ctx context.Context, src Source) (Result, error) {
	job, err := p.Start(ctx, src)
	if err != nil {
		return Result{Source: src.Name()}, err
	}
	return job.Finish(ctx)
}

// Job is an acquired image waiting for recognition. It holds the gate until
// Finish or Abort is called.
type Job struct {
	p        *Pipeline
	src      Source
	source   string
	imageURI string
	once     sync.Once
}

// ImageURI is the acquired image reference.
func (j *Job) ImageURI() string { return j.imageURI }

// Source is the name of the source that produced the image.
func (j *Job) Source() string { return j.source }

// Start takes the gate and acquires an image. On error the gate is released.
func (p *Pipeline) Start(ctx context.Context, src Source) (*Job, error) {
	if err := p.gate.TryStart(); err != nil {
		return nil, err
	}

	log := p.log.With().Str("source", src.Name()).Logger()
	log.Debug().Msg("acquiring image")

	uri, err := src.Acquire(ctx)
	if err != nil {
		p.gate.Done()
		if isCancel(err) {
			log.Debug().Msg("capture cancelled")
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}

	return &Job{p: p, src: src, source: src.Name(), imageURI: uri}, nil
}

// Finish recognizes the image, records the result and releases the gate. An
// image created by the source is discarded when recognition does not complete.
func (j *Job) Finish(ctx context.Context) (Result, error) {
	defer j.Abort()

	p := j.p
	res := Result{Source: j.source, ImageURI: j.imageURI}

	log := p.log.With().Str("source", j.source).Str("uri", j.imageURI).Logger()
	log.Debug().Msg("recognizing image")

	text, err := p.recognizer.Recognize(ctx, j.imageURI)
	if err != nil {
		j.discard(log)
		if isCancel(err) {
			log.Debug().Msg("recognition cancelled")
			return res, ErrCancelled
		}
		if !errors.Is(err, recognize.ErrRecognitionFailed) {
			err = fmt.Errorf("%w: %w", recognize.ErrRecognitionFailed, err)
		}
		return res, err
	}
	res.Text = text

	items, err := p.history.Append(ctx, j.imageURI, text)
	res.History = items
	if err != nil {
		log.Error().Err(err).Msg("failed to record result")
		return res, err
	}

	log.Info().Int("history", len(items)).Msg("image processed")

	return res, nil
}

func (j *Job) discard(log zerolog.Logger) {
	d, ok := j.src.(Discarder)
	if !ok {
		return
	}
	if err := d.Discard(j.imageURI); err != nil {
		log.Warn().Err(err).Msg("failed to discard image")
	}
}

// Abort releases the gate without recognizing. Safe to call more than once.
func (j *Job) Abort() {
	j.once.Do(j.p.gate.Done)
}

func isCancel(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
