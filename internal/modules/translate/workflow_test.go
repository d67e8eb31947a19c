package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCall struct {
	system string
	prompt string
}

// fakeClient replays canned completions in order.
type fakeClient struct {
	responses []string
	errs      []error
	calls     []fakeCall
}

func (f *fakeClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, fakeCall{system: systemPrompt, prompt: prompt})
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("unexpected llm call")
}

const instructorResponse = `{
	"signs": [
		{"word": "YESTERDAY", "hand_shape": "open B", "location": "cheek", "movement": "backward twist", "non_manual_markers": "raised brows"},
		{"word": "STORE", "hand_shape": "flat O", "location": "neutral space", "movement": "twist outward", "non_manual_markers": ""}
	],
	"note": "Reordered into Time-Topic-Comment structure."
}`

func TestRunWorkflowReorders(t *testing.T) {
	client := &fakeClient{
		responses: []string{
			`{"should_reorder": true, "asl_gloss_order": "YESTERDAY STORE I GO"}`,
			instructorResponse,
		},
	}

	result, err := runWorkflow(context.Background(), client, "I went to the store yesterday", time.Second)
	require.NoError(t, err)
	require.Len(t, client.calls, 2)

	// The instructor works on the reordered gloss, while the result echoes
	// the original query.
	assert.Contains(t, client.calls[1].prompt, "YESTERDAY STORE I GO")
	assert.Equal(t, "I went to the store yesterday", result.Query)
	assert.Len(t, result.Signs, 2)
	assert.Equal(t, "YESTERDAY", result.Signs[0].Word)
	assert.NotEmpty(t, result.Note)
}

func TestRunWorkflowNoReorderKeepsInput(t *testing.T) {
	client := &fakeClient{
		responses: []string{
			`{"should_reorder": false, "asl_gloss_order": ""}`,
			instructorResponse,
		},
	}

	_, err := runWorkflow(context.Background(), client, "HELLO", time.Second)
	require.NoError(t, err)
	require.Len(t, client.calls, 2)
	assert.Contains(t, client.calls[1].prompt, "HELLO")
}

func TestRunWorkflowIgnoresEmptyGloss(t *testing.T) {
	// A planner that wants a reorder but produces no gloss falls back to
	// the original input rather than describing an empty sentence.
	client := &fakeClient{
		responses: []string{
			`{"should_reorder": true, "asl_gloss_order": "   "}`,
			instructorResponse,
		},
	}

	_, err := runWorkflow(context.Background(), client, "thank you", time.Second)
	require.NoError(t, err)
	assert.Contains(t, client.calls[1].prompt, "thank you")
}

func TestRunWorkflowPlannerFailure(t *testing.T) {
	client := &fakeClient{errs: []error{errors.New("boom")}}

	_, err := runWorkflow(context.Background(), client, "hello", time.Second)
	require.Error(t, err)

	var wfErr *workflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "grammar planning", wfErr.Step)
	assert.Len(t, client.calls, 1)
}

func TestRunWorkflowInstructorFailure(t *testing.T) {
	client := &fakeClient{
		responses: []string{`{"should_reorder": false}`},
		errs:      []error{nil, errors.New("timeout")},
	}

	_, err := runWorkflow(context.Background(), client, "hello", time.Second)
	var wfErr *workflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "sign description", wfErr.Step)
}

func TestRunWorkflowMalformedJSON(t *testing.T) {
	client := &fakeClient{
		responses: []string{`{"should_reorder": false}`, `not json at all`},
	}

	_, err := runWorkflow(context.Background(), client, "hello", time.Second)
	var wfErr *workflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "sign description", wfErr.Step)
}

func TestRunWorkflowRejectsEmptySigns(t *testing.T) {
	client := &fakeClient{
		responses: []string{`{"should_reorder": false}`, `{"signs": [], "note": "nothing"}`},
	}

	_, err := runWorkflow(context.Background(), client, "hello", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signs")
}

func TestRunWorkflowAcceptsFencedJSON(t *testing.T) {
	client := &fakeClient{
		responses: []string{
			"```json\n{\"should_reorder\": false}\n```",
			"```json\n" + instructorResponse + "\n```",
		},
	}

	result, err := runWorkflow(context.Background(), client, "hello", time.Second)
	require.NoError(t, err)
	assert.Len(t, result.Signs, 2)
}
