package localmodel

import (
	"context"

	"github.com/teamyoo/atomic-router/internal/domain"
)

// Options are the completion knobs forwarded to the runtime.
type Options struct {
	ForceTools    bool     `json:"force_tools"`
	Temperature   float64  `json:"temperature"`
	MaxTokens     int      `json:"max_tokens"`
	StopSequences []string `json:"stop_sequences"`
}

// Runtime is one live handle onto the on-device model. Complete returns the
// runtime's raw response text; decoding and salvage are the caller's job so
// a misbehaving runtime degrades instead of erroring.
type Runtime interface {
	Init(ctx context.Context, weightsPath string) error
	Reset(ctx context.Context) error
	Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts Options) (string, error)
	Destroy(ctx context.Context) error
}
