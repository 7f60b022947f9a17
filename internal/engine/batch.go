package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/maltedev/ekatra-normalizer/internal/response"
)

var ErrBatchTooLarge = errors.New("batch exceeds maximum size")

// Mode selects the entry point a batch item runs through.
type Mode string

const (
	ModeFlexible Mode = "flexible"
	ModeSmart    Mode = "smart"
	ModeSync     Mode = "sync"
)

func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeFlexible, ModeSmart, ModeSync:
		return m, true
	case "":
		return ModeFlexible, true
	}
	return "", false
}

// Transform runs raw through the entry point named by mode.
func (e *Engine) Transform(mode Mode, raw any) response.Envelope {
	switch mode {
	case ModeSmart:
		return e.SmartTransform(raw)
	case ModeSync:
		return e.SyncTransform(raw)
	default:
		return e.TransformFlexible(raw)
	}
}

// TransformBatch transforms items concurrently. Envelopes are returned in
// input order, one per item. Items not started before ctx is done get an
// error envelope.
func (e *Engine) TransformBatch(ctx context.Context, mode Mode, items []any) ([]response.Envelope, error) {
	if len(items) > e.batchMaxItems {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(items), e.batchMaxItems)
	}

	out := make([]response.Envelope, len(items))

	var g errgroup.Group
	g.SetLimit(e.batchConcurrency)

	for i, raw := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = e.responses.Error("Batch cancelled before item was processed", map[string]any{
					"index": i,
					"error": err.Error(),
				})
				return nil
			}
			env := e.Transform(mode, raw)
			env.Metadata["index"] = i
			out[i] = env
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info("batch transformed", "mode", mode, "items", len(items), "failed", countFailed(out))
	return out, nil
}

func countFailed(envs []response.Envelope) int {
	n := 0
	for _, env := range envs {
		if !env.OK() {
			n++
		}
	}
	return n
}
