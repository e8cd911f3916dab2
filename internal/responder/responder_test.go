package responder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neurochat/internal/llm"
	"neurochat/internal/session"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string          { return "openai" }
func (m *MockProvider) CredentialKey() string { return "OPENAI_API_KEY" }
func (m *MockProvider) DefaultModel() string  { return "gpt-3.5-turbo" }

func (m *MockProvider) Complete(ctx context.Context, apiKey string, req llm.Request) (string, error) {
	args := m.Called(ctx, apiKey, req)
	return args.String(0), args.Error(1)
}

type staticKeys map[string]string

func (s staticKeys) Resolve(key string) (string, string, bool) {
	v, ok := s[key]
	return v, "test", ok && v != ""
}

func turns(n int) []session.Turn {
	out := make([]session.Turn, 0, n)
	for i := 0; i < n; i++ {
		role := session.RoleUser
		if i%2 == 1 {
			role = session.RoleAI
		}
		out = append(out, session.Turn{Role: role, Message: fmt.Sprintf("turn %d", i)})
	}
	return out
}

func TestGenerate_MissingCredential(t *testing.T) {
	provider := new(MockProvider)
	r := New(provider, staticKeys{}, Options{})

	listen := r.Generate(context.Background(), session.ModeListen, "hi", nil)
	assert.Equal(t, "I'm here to listen and support you. (Note: OpenAI API key not configured - "+
		"please add OPENAI_API_KEY to your environment variables)", listen)

	talk := r.Generate(context.Background(), session.ModeTalk, "hi", nil)
	assert.Equal(t, "I'm here to chat with you! What's on your mind? (Note: OpenAI API key not configured - "+
		"please add OPENAI_API_KEY to your environment variables)", talk)

	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_ProviderFailure(t *testing.T) {
	tests := []struct {
		mode session.Mode
		want string
	}{
		{session.ModeListen, "I'm here to listen and support you. Please continue sharing what's on your mind."},
		{session.ModeTalk, "I'm having some connection issues right now, but I'm still here with you. What's going on?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			provider := new(MockProvider)
			provider.On("Complete", mock.Anything, "sk-test", mock.Anything).Return("", errors.New("connection refused"))

			r := New(provider, staticKeys{"OPENAI_API_KEY": "sk-test"}, Options{})
			assert.Equal(t, tt.want, r.Generate(context.Background(), tt.mode, "hi", nil))
			provider.AssertExpectations(t)
		})
	}
}

func TestGenerate_EmptyCompletionFallsBack(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("   ", nil)

	r := New(provider, staticKeys{"OPENAI_API_KEY": "sk-test"}, Options{})
	assert.Equal(t, ProfileFor(session.ModeTalk).Failure, r.Generate(context.Background(), session.ModeTalk, "hi", nil))
}

func TestGenerate_BuildsWindowedRequest(t *testing.T) {
	tests := []struct {
		mode        session.Mode
		history     int
		wantPrior   int
		maxTokens   int
		temperature float64
	}{
		{session.ModeListen, 10, 4, 100, 0.7},
		{session.ModeListen, 2, 2, 100, 0.7},
		{session.ModeTalk, 10, 6, 150, 0.8},
		{session.ModeTalk, 0, 0, 150, 0.8},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.mode, tt.history), func(t *testing.T) {
			provider := new(MockProvider)
			var got llm.Request
			provider.On("Complete", mock.Anything, "sk-test", mock.Anything).
				Run(func(args mock.Arguments) { got = args.Get(2).(llm.Request) }).
				Return("  sounds hard  ", nil)

			r := New(provider, staticKeys{"OPENAI_API_KEY": "sk-test"}, Options{})
			history := turns(tt.history)
			reply := r.Generate(context.Background(), tt.mode, "new message", history)

			assert.Equal(t, "sounds hard", reply)
			require.Len(t, got.Messages, tt.wantPrior+1)
			assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "new message"}, got.Messages[tt.wantPrior])
			if tt.wantPrior > 0 {
				assert.Equal(t, history[len(history)-tt.wantPrior].Message, got.Messages[0].Content)
			}
			assert.Equal(t, "gpt-3.5-turbo", got.Model)
			assert.Equal(t, tt.maxTokens, got.MaxTokens)
			assert.InDelta(t, tt.temperature, got.Temperature, 1e-9)
			assert.InDelta(t, 0.3, got.FrequencyPenalty, 1e-9)
			assert.InDelta(t, 0.3, got.PresencePenalty, 1e-9)
			assert.Equal(t, ProfileFor(tt.mode).Persona, got.System)
		})
	}
}

func TestGenerate_MapsRoles(t *testing.T) {
	provider := new(MockProvider)
	var got llm.Request
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(llm.Request) }).
		Return("ok", nil)

	r := New(provider, staticKeys{"OPENAI_API_KEY": "sk"}, Options{Model: "custom"})
	r.Generate(context.Background(), session.ModeTalk, "x", []session.Turn{
		{Role: session.RoleUser, Message: "a"},
		{Role: session.RoleAI, Message: "b"},
		{Role: "system", Message: "ignored"},
	})

	require.Len(t, got.Messages, 3)
	assert.Equal(t, llm.RoleUser, got.Messages[0].Role)
	assert.Equal(t, llm.RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, "custom", got.Model)
}

func TestGenerate_AppliesTimeout(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.DeadlineExceeded)

	r := New(provider, staticKeys{"OPENAI_API_KEY": "sk"}, Options{Timeout: 20 * time.Millisecond})
	reply := r.Generate(context.Background(), session.ModeListen, "hi", nil)
	assert.Equal(t, ProfileFor(session.ModeListen).Failure, reply)
}

func TestGenerate_NilProvider(t *testing.T) {
	r := New(nil, staticKeys{}, Options{})
	assert.Equal(t, ProfileFor(session.ModeTalk).Failure, r.Generate(context.Background(), session.ModeTalk, "hi", nil))
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, 4, ProfileFor(session.ModeListen).Window)
	assert.Equal(t, 6, ProfileFor(session.ModeTalk).Window)
	assert.Equal(t, session.ModeListen, ProfileFor(session.ModeUnset).Mode)
	assert.Contains(t, Confirmation(session.ModeListen), "listening mode")
	assert.Contains(t, Confirmation(session.ModeTalk), "talk mode")
	assert.Equal(t, []string{"Listen Mode", "Response Mode"}, StartOptions)
}
