package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fever-helpline/internal/llm"
	"fever-helpline/internal/redflag"
	"fever-helpline/pkg"
)

// fakeCompletion is a canned llm.Client for assessor tests.
type fakeCompletion struct {
	reply string
	err   error
}

func (f *fakeCompletion) Complete(_ context.Context, _ string, _ []llm.Turn, _ bool) (string, error) {
	return f.reply, f.err
}

func newDetector() *redflag.Detector {
	return redflag.NewDetector(redflag.DefaultCatalog())
}

func TestRuleAssessor(t *testing.T) {
	a := NewRuleAssessor(newDetector())
	ctx := context.Background()

	t.Run("mild symptoms", func(t *testing.T) {
		v := a.Assess(ctx, nil, "I have a mild fever")
		assert.Equal(t, pkg.LevelSelfCare, v.Level)
		assert.False(t, v.Escalate)
		assert.NotEmpty(t, v.NextSteps)
		require.NoError(t, v.Validate())
	})

	t.Run("high fever wording", func(t *testing.T) {
		v := a.Assess(ctx, nil, "I have a very high fever, 104 degrees")
		assert.Equal(t, pkg.LevelUrgent, v.Level)
		assert.True(t, v.Escalate)
		require.NoError(t, v.Validate())
	})

	t.Run("red flag wins", func(t *testing.T) {
		v := a.Assess(ctx, nil, "I have chest pain")
		assert.Equal(t, pkg.LevelEmergency, v.Level)
		assert.True(t, v.Escalate)
		assert.Equal(t, "chest pain or pressure", v.RedFlag)
		assert.Empty(t, v.NextQuestion)
		require.NoError(t, v.Validate())
	})
}

func TestModelAssessorParsesPayload(t *testing.T) {
	client := &fakeCompletion{reply: `{
		"triage_level": "URGENT",
		"escalate": true,
		"summary": "High fever for two days",
		"recommended_next_steps": ["See a provider today"],
		"next_question": "Do you have any other symptoms?"
	}`}
	a := NewModelAssessor(newDetector(), client, nil)

	v := a.Assess(context.Background(), nil, "my fever is 102 and rising")
	assert.Equal(t, pkg.LevelUrgent, v.Level)
	assert.True(t, v.Escalate)
	assert.Equal(t, "High fever for two days", v.Summary)
	assert.Equal(t, []string{"See a provider today"}, v.NextSteps)
	assert.Equal(t, "Do you have any other symptoms?", v.NextQuestion)
	require.NoError(t, v.Validate())
}

func TestModelAssessorFencedPayload(t *testing.T) {
	client := &fakeCompletion{reply: "```json\n{\"triage_level\":\"SELF_CARE\",\"escalate\":false," +
		"\"summary\":\"Mild\",\"recommended_next_steps\":[\"Rest\"],\"next_question\":null}\n```"}
	a := NewModelAssessor(newDetector(), client, nil)

	v := a.Assess(context.Background(), nil, "feeling a bit warm")
	assert.Equal(t, pkg.LevelSelfCare, v.Level)
	assert.Empty(t, v.NextQuestion)
}

// Fallback safety: whatever goes wrong downstream, Assess returns a
// well-formed FOLLOW_UP verdict with non-empty steps.
func TestModelAssessorFallback(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeCompletion
	}{
		{"service error", &fakeCompletion{err: errors.New("boom")}},
		{"timeout", &fakeCompletion{err: llm.ErrUnavailable}},
		{"malformed json", &fakeCompletion{reply: "sorry, I cannot help with that"}},
		{"unknown level", &fakeCompletion{reply: `{"triage_level":"PANIC","escalate":true,"summary":"x","recommended_next_steps":["y"]}`}},
		{"empty steps", &fakeCompletion{reply: `{"triage_level":"URGENT","escalate":true,"summary":"x","recommended_next_steps":[]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewModelAssessor(newDetector(), tt.client, nil)
			v := a.Assess(context.Background(), nil, "I feel warm")
			assert.Equal(t, pkg.LevelFollowUp, v.Level)
			assert.False(t, v.Escalate)
			assert.NotEmpty(t, v.NextSteps)
			assert.NotEmpty(t, v.NextQuestion)
			require.NoError(t, v.Validate())
		})
	}
}

func TestModelAssessorRedFlagBypassesDelegate(t *testing.T) {
	client := &fakeCompletion{err: errors.New("should not be called")}
	a := NewModelAssessor(newDetector(), client, nil)

	v := a.Assess(context.Background(), nil, "I can't breathe")
	assert.Equal(t, pkg.LevelEmergency, v.Level)
	assert.Equal(t, "severe difficulty breathing", v.RedFlag)
	require.NoError(t, v.Validate())
}
