// Package clip drives frame synthesis across a whole track and hands
// finished frames to an encoder. Frame synthesis for the pure
// strategies is parallel across frame indices; the particle strategy is
// advanced sequentially by a single producer. Frames always reach the
// writer in index order through a bounded queue so that rendering can
// run ahead of a slower encoder without unbounded memory growth.
package clip

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"vizbeat/logging"
	"vizbeat/render"
	"vizbeat/timeline"
	"vizbeat/visual"
)

// DefaultFrameRate is the reference deployment's output frame rate.
const DefaultFrameRate = 30.0

// JobConfig describes one render job.
type JobConfig struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	FPS       float64      `json:"fps"`
	Mode      render.Mode  `json:"-"`
	ModeName  string       `json:"visual_mode"`
	Style     render.Style `json:"style"`
	Workers   int          `json:"workers"`
	QueueSize int          `json:"queue_size"`
	Seed      int64        `json:"seed"`
}

// DefaultJobConfig returns a 1080p geometric job.
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		Width:     1920,
		Height:    1080,
		FPS:       DefaultFrameRate,
		Mode:      render.ModeGeometric,
		Style:     render.DefaultStyle(),
		Workers:   runtime.NumCPU(),
		QueueSize: 16,
	}
}

func (c *JobConfig) normalize() {
	if c.FPS <= 0 {
		c.FPS = DefaultFrameRate
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.QueueSize < 1 {
		c.QueueSize = 1
	}
	if c.Width < 2 {
		c.Width = 2
	}
	if c.Height < 2 {
		c.Height = 2
	}
	if c.ModeName != "" {
		c.Mode = render.ParseMode(c.ModeName)
	}
}

// FrameWriter consumes finished frames in strictly increasing index
// order. Implementations are driven by exactly one goroutine.
type FrameWriter interface {
	WriteFrame(index int, frame *render.Canvas) error
}

// Assembler runs render jobs.
type Assembler struct {
	logger logging.Logger
}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		logger: logging.WithFields(logging.Fields{"component": "clip_assembler"}),
	}
}

type indexedFrame struct {
	index int
	frame *render.Canvas
}

// Render synthesizes every frame of [0, duration] at cfg.FPS and feeds
// them to w in order. Cancellation is cooperative and checked at frame
// boundaries only, so aborting never corrupts simulator state. The
// timeline and config are treated as immutable for the duration of the
// job.
func (a *Assembler) Render(ctx context.Context, tl *timeline.Timeline, cfg *JobConfig, w FrameWriter) error {
	if cfg == nil {
		cfg = DefaultJobConfig()
	}
	cfg.normalize()

	jobID := uuid.NewString()
	frameCount := int(math.Floor(tl.Duration*cfg.FPS)) + 1
	logger := a.logger.WithFields(logging.Fields{
		"job_id": jobID,
		"mode":   cfg.Mode.String(),
		"frames": frameCount,
		"fps":    cfg.FPS,
	})
	logger.Info("render job starting")

	synth := render.NewSynthesizer(cfg.Mode, cfg.Width, cfg.Height, cfg.FPS, cfg.Style, cfg.Seed)
	resolver := visual.NewResolver(tl)

	var err error
	if synth.Stateful() {
		err = a.renderSequential(ctx, resolver, synth, cfg, frameCount, w)
	} else {
		err = a.renderParallel(ctx, resolver, synth, cfg, frameCount, w)
	}
	if err != nil {
		logger.Error(err, "render job failed")
		return err
	}

	logger.Info("render job complete")
	return nil
}

// renderSequential advances the particle simulator one frame at a time
// while a single consumer drains finished frames into the writer. The
// bounded channel lets the simulation run ahead of a slow encoder by at
// most QueueSize frames.
func (a *Assembler) renderSequential(ctx context.Context, resolver *visual.Resolver, synth *render.Synthesizer, cfg *JobConfig, frameCount int, w FrameWriter) error {
	frames := make(chan indexedFrame, cfg.QueueSize)
	writeErr := make(chan error, 1)

	go func() {
		for f := range frames {
			if err := w.WriteFrame(f.index, f.frame); err != nil {
				writeErr <- err
				// Drain so the producer never blocks forever.
				for range frames {
				}
				return
			}
		}
		writeErr <- nil
	}()

	for i := 0; i < frameCount; i++ {
		select {
		case <-ctx.Done():
			close(frames)
			<-writeErr
			return ctx.Err()
		case err := <-writeErr:
			close(frames)
			return fmt.Errorf("frame writer failed: %w", err)
		default:
		}

		t := float64(i) / cfg.FPS
		frames <- indexedFrame{index: i, frame: synth.Frame(resolver.Resolve(t), t)}
	}
	close(frames)

	if err := <-writeErr; err != nil {
		return fmt.Errorf("frame writer failed: %w", err)
	}
	return nil
}

// renderParallel fans frame indices out to a worker pool and reorders
// results before the writer. Workers stall once the results channel
// fills, which bounds how far any of them can run ahead.
func (a *Assembler) renderParallel(ctx context.Context, resolver *visual.Resolver, synth *render.Synthesizer, cfg *JobConfig, frameCount int, w FrameWriter) error {
	jobs := make(chan int)
	results := make(chan indexedFrame, cfg.QueueSize)

	var wg sync.WaitGroup
	for n := 0; n < cfg.Workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t := float64(i) / cfg.FPS
				results <- indexedFrame{index: i, frame: synth.Frame(resolver.Resolve(t), t)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		for i := 0; i < frameCount; i++ {
			select {
			case <-ctx.Done():
				producerErr <- ctx.Err()
				return
			case jobs <- i:
			}
		}
		producerErr <- nil
	}()

	// Reorder window: frames may complete out of order but must reach
	// the writer in order. The pending map never exceeds
	// QueueSize + Workers entries.
	pending := make(map[int]*render.Canvas)
	next := 0
	var writeFailure error
	for f := range results {
		if writeFailure != nil {
			continue
		}
		pending[f.index] = f.frame
		for {
			frame, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := w.WriteFrame(next, frame); err != nil {
				writeFailure = fmt.Errorf("frame writer failed: %w", err)
				break
			}
			next++
		}
	}

	if err := <-producerErr; err != nil {
		return err
	}
	return writeFailure
}
