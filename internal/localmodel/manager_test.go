package localmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamyoo/atomic-router/internal/domain"
	"go.uber.org/zap"
)

// fakeRuntime records lifecycle calls.
type fakeRuntime struct {
	initErr    error
	inits      int
	resets     int
	destroys   int
	completes  int
	gotWeights string
}

func (f *fakeRuntime) Init(ctx context.Context, weightsPath string) error {
	f.inits++
	f.gotWeights = weightsPath
	return f.initErr
}

func (f *fakeRuntime) Reset(ctx context.Context) error {
	f.resets++
	return nil
}

func (f *fakeRuntime) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts Options) (string, error) {
	f.completes++
	return `{"success": true}`, nil
}

func (f *fakeRuntime) Destroy(ctx context.Context) error {
	f.destroys++
	return nil
}

func TestManagerLazyInit(t *testing.T) {
	rt := &fakeRuntime{}
	m := NewManager(func() Runtime { return rt }, "weights/test", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, 1, rt.inits)
	assert.Equal(t, "weights/test", rt.gotWeights)
	assert.Equal(t, 1, rt.resets)

	// Subsequent calls reuse the same handle.
	_, err := m.Complete(ctx, nil, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rt.inits)
	assert.Equal(t, 1, rt.completes)
}

func TestManagerFreshReplacesHandle(t *testing.T) {
	var runtimes []*fakeRuntime
	m := NewManager(func() Runtime {
		rt := &fakeRuntime{}
		runtimes = append(runtimes, rt)
		return rt
	}, "weights/test", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, m.Fresh(ctx))
	require.NoError(t, m.Fresh(ctx))

	require.Len(t, runtimes, 2)
	assert.Equal(t, 1, runtimes[0].destroys)
	assert.Equal(t, 0, runtimes[1].destroys)
}

func TestManagerInitFailure(t *testing.T) {
	m := NewManager(func() Runtime {
		return &fakeRuntime{initErr: errors.New("model server down")}
	}, "weights/test", zap.NewNop())

	assert.Error(t, m.Reset(context.Background()))
	_, err := m.Complete(context.Background(), nil, nil, Options{})
	assert.Error(t, err)
}

func TestManagerRelease(t *testing.T) {
	rt := &fakeRuntime{}
	m := NewManager(func() Runtime { return rt }, "weights/test", zap.NewNop())
	ctx := context.Background()

	// Release without a handle is a no-op.
	require.NoError(t, m.Release(ctx))
	assert.Zero(t, rt.destroys)

	require.NoError(t, m.Fresh(ctx))
	require.NoError(t, m.Release(ctx))
	assert.Equal(t, 1, rt.destroys)
}
