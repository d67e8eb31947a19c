package translate

// Sign is one unit of translation output: a gloss plus the physical
// description of how the sign is performed. Immutable once produced.
type Sign struct {
	Word             string `json:"word"`
	HandShape        string `json:"hand_shape"`
	Location         string `json:"location"`
	Movement         string `json:"movement"`
	NonManualMarkers string `json:"non_manual_markers"`
}

// Result is the full outcome of one translation: the original query, the
// ordered sign sequence, and a grammar note explaining the transformation.
type Result struct {
	Query string `json:"query"`
	Signs []Sign `json:"signs"`
	Note  string `json:"note"`
}

// GrammarPlan is the planner's decision about ASL sentence structure.
// Transient: it only lives within a single workflow run.
type GrammarPlan struct {
	ShouldReorder bool   `json:"should_reorder"`
	ASLGlossOrder string `json:"asl_gloss_order"`
}

type translateDTO struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}
