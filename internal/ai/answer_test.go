package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policychat/internal/retrieval"
)

var testMatches = []retrieval.Match{
	{
		Document: retrieval.Document{ID: 1, Title: "Leave", Content: "Employees get 30 days annual leave"},
		Score:    0.9,
	},
	{
		Document: retrieval.Document{ID: 2, Title: "Hours", Content: "Standard work hours are 9 to 5"},
		Score:    0.4,
	},
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("how many leave days", testMatches)

	// Each match's title and content is enumerated in order.
	assert.Contains(t, prompt, "وثيقة 1: Leave")
	assert.Contains(t, prompt, "Employees get 30 days annual leave")
	assert.Contains(t, prompt, "وثيقة 2: Hours")
	assert.Contains(t, prompt, "Standard work hours are 9 to 5")
	assert.Less(t,
		strings.Index(prompt, "وثيقة 1"),
		strings.Index(prompt, "وثيقة 2"))

	assert.Contains(t, prompt, "سؤال الموظف: how many leave days")
}

func TestBuildPromptNoMatches(t *testing.T) {
	prompt := BuildPrompt("anything", nil)

	assert.NotContains(t, prompt, contextHeader)
	assert.Contains(t, prompt, "سؤال الموظف: anything")
	// The decline instruction is always present.
	assert.Contains(t, prompt, "فقل ذلك بصراحة")
}

func TestAnswer(t *testing.T) {
	provider := NewMockProvider("mock")
	provider.SetResponses(MockResponse{Content: "يحق لكل موظف إجازة سنوية مدتها 30 يومًا"})

	a := NewAnswerer(provider, "")
	answer := a.Answer(context.Background(), "كم يوم اجازة؟", testMatches)

	assert.Equal(t, "يحق لكل موظف إجازة سنوية مدتها 30 يومًا", answer)

	prompts := provider.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "كم يوم اجازة؟")
}

func TestAnswerFallbackOnProviderError(t *testing.T) {
	provider := NewMockProvider("mock")
	provider.SetResponses(MockResponse{Error: errors.New("quota exceeded")})

	a := NewAnswerer(provider, "")
	answer := a.Answer(context.Background(), "سؤال", nil)

	assert.Equal(t, FallbackMessage, answer)
}

func TestAnswerCustomFallback(t *testing.T) {
	provider := NewMockProvider("mock")
	provider.SetResponses(MockResponse{Error: errors.New("timeout")})

	a := NewAnswerer(provider, "custom fallback")
	assert.Equal(t, "custom fallback", a.Answer(context.Background(), "q", nil))
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider("", "gemini-1.5-pro")
	require.Error(t, err)

	p, err := NewGeminiProvider("test-key", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, defaultGeminiModel, p.model)
}

func TestParseGeminiContent(t *testing.T) {
	resp := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]interface{}{"text": "hello"},
					},
				},
			},
		},
	}
	text, ok := parseGeminiContent(resp)
	require.True(t, ok)
	assert.Equal(t, "hello", text)

	_, ok = parseGeminiContent(map[string]interface{}{})
	assert.False(t, ok)

	_, ok = parseGeminiContent(map[string]interface{}{"candidates": []interface{}{}})
	assert.False(t, ok)
}
