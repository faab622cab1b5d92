package localmodel

import (
	"context"
	"fmt"

	"github.com/teamyoo/atomic-router/internal/domain"
	"go.uber.org/zap"
)

// Manager owns the lifecycle of the single shared runtime handle. Fresh
// destroys and reinitializes it (once per top-level routing call and before
// any retry), Reset clears per-call session state, Release tears it down at
// shutdown. At most one in-flight request per Manager.
type Manager struct {
	factory func() Runtime
	weights string
	current Runtime
	logger  *zap.Logger
}

// NewManager creates a manager that builds runtime handles with factory and
// initializes them against weightsPath.
func NewManager(factory func() Runtime, weightsPath string, logger *zap.Logger) *Manager {
	return &Manager{
		factory: factory,
		weights: weightsPath,
		logger:  logger,
	}
}

// Fresh destroys any existing handle and initializes a new one.
func (m *Manager) Fresh(ctx context.Context) error {
	if m.current != nil {
		if err := m.current.Destroy(ctx); err != nil {
			m.logger.Warn("failed to destroy runtime handle", zap.Error(err))
		}
		m.current = nil
	}
	_, err := m.acquire(ctx)
	return err
}

// Reset clears session state on the current handle, initializing one first
// if needed.
func (m *Manager) Reset(ctx context.Context) error {
	rt, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	return rt.Reset(ctx)
}

// Complete runs one completion on the current handle.
func (m *Manager) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts Options) (string, error) {
	rt, err := m.acquire(ctx)
	if err != nil {
		return "", err
	}
	return rt.Complete(ctx, messages, tools, opts)
}

// Release destroys the current handle.
func (m *Manager) Release(ctx context.Context) error {
	if m.current == nil {
		return nil
	}
	err := m.current.Destroy(ctx)
	m.current = nil
	return err
}

func (m *Manager) acquire(ctx context.Context) (Runtime, error) {
	if m.current != nil {
		return m.current, nil
	}
	rt := m.factory()
	if err := rt.Init(ctx, m.weights); err != nil {
		return nil, fmt.Errorf("runtime init failed: %w", err)
	}
	m.logger.Debug("initialized runtime handle", zap.String("weights", m.weights))
	m.current = rt
	return rt, nil
}
