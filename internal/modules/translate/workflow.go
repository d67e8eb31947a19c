package translate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// The workflow runs in three steps: plan the ASL grammar structure,
// optionally adopt the reordered gloss sequence, then describe each sign.
// Each step is a pure function over its inputs; nothing is shared across
// invocations. A single LLM failure surfaces as a workflow error with no
// retry at this layer.

// workflowError tags a failure with the step it happened in.
type workflowError struct {
	Step string
	Err  error
}

func (e *workflowError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *workflowError) Unwrap() error { return e.Err }

// plan asks the LLM whether the sentence needs reordering into
// Time-Topic-Comment structure.
func plan(ctx context.Context, client LLMClient, input string, timeout time.Duration) (GrammarPlan, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := client.Complete(callCtx, grammarPlannerSystemPrompt, buildGrammarPlannerPrompt(input))
	if err != nil {
		return GrammarPlan{}, &workflowError{Step: "grammar planning", Err: err}
	}

	var p GrammarPlan
	if err := unmarshalLLMJSON(raw, &p); err != nil {
		return GrammarPlan{}, &workflowError{Step: "grammar planning", Err: err}
	}
	return p, nil
}

// describe asks the LLM for the full sign-by-sign breakdown of the gloss
// sequence, along with a note explaining the grammar transformation.
func describe(ctx context.Context, client LLMClient, original, working string, timeout time.Duration) (*Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := client.Complete(callCtx, signInstructorSystemPrompt, buildSignInstructorPrompt(original, working))
	if err != nil {
		return nil, &workflowError{Step: "sign description", Err: err}
	}

	var out struct {
		Signs []Sign `json:"signs"`
		Note  string `json:"note"`
	}
	if err := unmarshalLLMJSON(raw, &out); err != nil {
		return nil, &workflowError{Step: "sign description", Err: err}
	}
	if len(out.Signs) == 0 {
		return nil, &workflowError{Step: "sign description", Err: fmt.Errorf("no signs in llm output")}
	}

	return &Result{Query: original, Signs: out.Signs, Note: out.Note}, nil
}

// runWorkflow executes plan -> (reorder) -> describe for one input.
func runWorkflow(ctx context.Context, client LLMClient, input string, timeout time.Duration) (*Result, error) {
	grammarPlan, err := plan(ctx, client, input, timeout)
	if err != nil {
		return nil, err
	}

	// Reordering is deterministic: adopt the planner's gloss sequence as
	// the working input. No additional LLM call is involved.
	working := input
	if grammarPlan.ShouldReorder && strings.TrimSpace(grammarPlan.ASLGlossOrder) != "" {
		working = grammarPlan.ASLGlossOrder
	}

	return describe(ctx, client, input, working, timeout)
}
