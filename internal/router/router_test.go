package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamyoo/atomic-router/internal/cloud"
	"github.com/teamyoo/atomic-router/internal/domain"
	"github.com/teamyoo/atomic-router/internal/localmodel"
	"go.uber.org/zap"
)

// fakeModel plays back a scripted sequence of completion responses.
type fakeModel struct {
	responses []completion
	calls     int
	freshes   int
	resets    int

	lastMessages []domain.Message
	lastTools    []domain.Tool
}

type completion struct {
	raw string
	err error
}

func (f *fakeModel) Fresh(ctx context.Context) error {
	f.freshes++
	return nil
}

func (f *fakeModel) Reset(ctx context.Context) error {
	f.resets++
	return nil
}

func (f *fakeModel) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool, opts localmodel.Options) (string, error) {
	f.lastMessages = messages
	f.lastTools = tools
	if f.calls >= len(f.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp.raw, resp.err
}

// fakeCloud returns a fixed result and records what it was asked.
type fakeCloud struct {
	result cloud.Result
	calls  int

	gotMessages    []domain.Message
	gotInstruction string
}

func (f *fakeCloud) Generate(ctx context.Context, messages []domain.Message, tools []domain.Tool, systemInstruction string) cloud.Result {
	f.calls++
	f.gotMessages = messages
	f.gotInstruction = systemInstruction
	return f.result
}

func testConfig() Config {
	return Config{
		AcceptConfidence:    0.3,
		LocalTimeout:        5 * time.Second,
		CloudTimeout:        5 * time.Second,
		LocalMaxTokens:      256,
		LocalSystemTemplate: "You can use {{tool_count}} tools.",
		CloudSystemTemplate: "Call all required tools.",
	}
}

func userMessages(text string) []domain.Message {
	return []domain.Message{{Role: domain.RoleUser, Content: text}}
}

func localEnvelope(calls string) string {
	return `{"success": true, "function_calls": [` + calls + `], "total_time_ms": 50, "confidence": 0.9}`
}

func TestRouteSingleIntentLocalAccepted(t *testing.T) {
	model := &fakeModel{responses: []completion{
		{raw: localEnvelope(`{"name": "set_alarm", "arguments": {"hour": 6, "minute": 30}}`)},
	}}
	cloudFake := &fakeCloud{}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	res := r.Route(context.Background(), userMessages("Set an alarm for 6:30 am"), domain.DemoTools())

	require.Len(t, res.FunctionCalls, 1)
	assert.Equal(t, "set_alarm", res.FunctionCalls[0].Name)
	assert.Equal(t, map[string]any{"hour": 6, "minute": 30}, res.FunctionCalls[0].Arguments)
	assert.Equal(t, domain.SourceOnDevice, res.Source)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, 50.0, res.TotalTimeMs)
	assert.Equal(t, 0, cloudFake.calls)
	assert.Equal(t, 1, model.calls)

	// The alarm keyword narrows the candidate tool list to one.
	require.Len(t, model.lastTools, 1)
	assert.Equal(t, "set_alarm", model.lastTools[0].Name)

	// The rendered system preamble leads the conversation.
	require.NotEmpty(t, model.lastMessages)
	assert.Equal(t, domain.RoleSystem, model.lastMessages[0].Role)
	assert.Equal(t, "You can use 1 tools.", model.lastMessages[0].Content)
}

func TestRouteSingleIntentManualFallback(t *testing.T) {
	// The model emits garbage; the deterministic rules rescue the request
	// without a retry or the cloud.
	model := &fakeModel{responses: []completion{
		{raw: "I am not JSON"},
	}}
	cloudFake := &fakeCloud{}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	res := r.Route(context.Background(), userMessages("Set an alarm for 6:30 am"), domain.DemoTools())

	require.Len(t, res.FunctionCalls, 1)
	assert.Equal(t, "set_alarm", res.FunctionCalls[0].Name)
	assert.Equal(t, map[string]any{"hour": 6, "minute": 30}, res.FunctionCalls[0].Arguments)
	assert.Equal(t, domain.SourceOnDevice, res.Source)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, 0, cloudFake.calls)
}

func TestRouteSingleIntentRetryAccepted(t *testing.T) {
	// Ambiguous text: no keyword fallback possible, so a fresh-handle retry
	// runs before the cloud.
	model := &fakeModel{responses: []completion{
		{raw: "garbage"},
		{raw: localEnvelope(`{"name": "play_music", "arguments": {"song": "the weather report"}}`)},
	}}
	cloudFake := &fakeCloud{}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	res := r.Route(context.Background(), userMessages("play the weather report"), domain.DemoTools())

	require.Len(t, res.FunctionCalls, 1)
	assert.Equal(t, "play_music", res.FunctionCalls[0].Name)
	assert.Equal(t, domain.SourceOnDevice, res.Source)
	assert.Equal(t, 2, model.calls)
	assert.GreaterOrEqual(t, model.freshes, 2)
	assert.Equal(t, 0, cloudFake.calls)
}

func TestRouteSingleIntentCloudFallback(t *testing.T) {
	model := &fakeModel{responses: []completion{
		{raw: "garbage"},
		{raw: "garbage again"},
	}}
	cloudFake := &fakeCloud{result: cloud.Result{
		FunctionCalls: []domain.FunctionCall{
			{Name: "get_weather", Arguments: map[string]any{"location": "Paris"}},
		},
		TotalTimeMs: 800,
	}}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	messages := userMessages("hello there")
	res := r.Route(context.Background(), messages, domain.DemoTools())

	require.Len(t, res.FunctionCalls, 1)
	assert.Equal(t, "get_weather", res.FunctionCalls[0].Name)
	assert.Equal(t, domain.SourceCloud, res.Source)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 800.0, res.TotalTimeMs)
	assert.Equal(t, 1, cloudFake.calls)
	assert.Equal(t, messages, cloudFake.gotMessages)
}

func TestRouteWithoutCloudClient(t *testing.T) {
	model := &fakeModel{responses: []completion{
		{raw: "garbage"},
		{raw: "garbage"},
	}}
	r := New(model, nil, testConfig(), zap.NewNop())

	res := r.Route(context.Background(), userMessages("hello there"), domain.DemoTools())

	assert.Empty(t, res.FunctionCalls)
	assert.Equal(t, domain.SourceCloud, res.Source)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestRouteMultiIntentAllLocal(t *testing.T) {
	model := &fakeModel{responses: []completion{
		{raw: localEnvelope(`{"name": "set_alarm", "arguments": {"hour": 7, "minute": 0}}`)},
		{raw: localEnvelope(`{"name": "get_weather", "arguments": {"location": "Tokyo"}}`)},
	}}
	cloudFake := &fakeCloud{}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	res := r.Route(context.Background(),
		userMessages("Set an alarm for 7 AM and check the weather in Tokyo"),
		domain.DemoTools())

	require.Len(t, res.FunctionCalls, 2)
	assert.Equal(t, "set_alarm", res.FunctionCalls[0].Name)
	assert.Equal(t, map[string]any{"hour": 7, "minute": 0}, res.FunctionCalls[0].Arguments)
	assert.Equal(t, "get_weather", res.FunctionCalls[1].Name)
	assert.Equal(t, map[string]any{"location": "Tokyo"}, res.FunctionCalls[1].Arguments)
	assert.Equal(t, domain.SourceOnDevice, res.Source)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, 0, cloudFake.calls)
	assert.Equal(t, 2, model.calls)
}

func TestRouteMultiIntentManualPartsAndPronoun(t *testing.T) {
	// Both parts fail on-device; per-part extraction carries the request,
	// and the pronoun recipient resolves against the full text.
	model := &fakeModel{responses: []completion{
		{raw: "garbage"},
		{raw: "garbage"},
	}}
	cloudFake := &fakeCloud{}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	res := r.Route(context.Background(),
		userMessages("Find Marcus in my contacts and text him saying found you"),
		domain.DemoTools())

	require.Len(t, res.FunctionCalls, 2)
	assert.Equal(t, "search_contacts", res.FunctionCalls[0].Name)
	assert.Equal(t, map[string]any{"query": "Marcus"}, res.FunctionCalls[0].Arguments)
	assert.Equal(t, "send_message", res.FunctionCalls[1].Name)
	assert.Equal(t, map[string]any{"recipient": "Marcus", "message": "found you"}, res.FunctionCalls[1].Arguments)
	assert.Equal(t, domain.SourceOnDevice, res.Source)
	assert.Equal(t, 0, cloudFake.calls)
}

func TestRouteMultiIntentCloudBackfill(t *testing.T) {
	// The first part has no extractable time, so the local attempt is
	// abandoned; the cloud answers with only one of the two calls and the
	// other is backfilled from its part.
	model := &fakeModel{responses: []completion{
		{raw: "garbage"},
	}}
	cloudFake := &fakeCloud{result: cloud.Result{
		FunctionCalls: []domain.FunctionCall{
			{Name: "set_alarm", Arguments: map[string]any{"hour": 7, "minute": 0}},
		},
		TotalTimeMs: 600,
	}}
	r := New(model, cloudFake, testConfig(), zap.NewNop())

	res := r.Route(context.Background(),
		userMessages("Set an alarm and check the weather in Tokyo"),
		domain.DemoTools())

	require.Len(t, res.FunctionCalls, 2)
	assert.Equal(t, "set_alarm", res.FunctionCalls[0].Name)
	assert.Equal(t, "get_weather", res.FunctionCalls[1].Name)
	assert.Equal(t, map[string]any{"location": "Tokyo"}, res.FunctionCalls[1].Arguments)
	assert.Equal(t, domain.SourceCloud, res.Source)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 1, cloudFake.calls)
	// Only the failing first part reached the model.
	assert.Equal(t, 1, model.calls)
}

func TestRouteDeduplicatesCalls(t *testing.T) {
	model := &fakeModel{responses: []completion{
		{raw: localEnvelope(
			`{"name": "set_alarm", "arguments": {"hour": 6, "minute": 30}}, `+
				`{"name": "set_alarm", "arguments": {"hour": 6, "minute": 30}}`)},
	}}
	r := New(model, nil, testConfig(), zap.NewNop())

	res := r.Route(context.Background(), userMessages("Set an alarm for 6:30 am"), domain.DemoTools())

	assert.Len(t, res.FunctionCalls, 1)
	assert.Equal(t, domain.SourceOnDevice, res.Source)
}

func TestRouteAlwaysReturnsResult(t *testing.T) {
	// No scripted responses at all: every stage fails and the result is
	// still a well-formed empty decision.
	model := &fakeModel{}
	r := New(model, nil, testConfig(), zap.NewNop())

	res := r.Route(context.Background(), userMessages(""), domain.DemoTools())

	assert.NotNil(t, res.FunctionCalls)
	assert.Empty(t, res.FunctionCalls)
	assert.Equal(t, domain.SourceCloud, res.Source)
}
