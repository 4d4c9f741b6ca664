package workflow

import (
	"github.com/omerfarooq-dev/formflow/constants"
	"github.com/omerfarooq-dev/formflow/internal/formextract"
)

// RunRequest is one workflow invocation: the user's free-text intent plus
// zero or more uploaded file paths.
type RunRequest struct {
	UserID    string
	UserInput string
	Files     []string
}

// State is the full record of a run. The engine always returns a State,
// even on failure; errors accumulate in Errors instead of aborting.
type State struct {
	RunID      string           `json:"run_id"`
	UserID     string           `json:"user_id"`
	UserInput  string           `json:"user_input"`
	InputFiles []string         `json:"input_files"`
	Intent     constants.Intent `json:"intent"`
	Stage      constants.Stage  `json:"stage"`

	// Document path outputs.
	EnglishText  *string        `json:"english_text,omitempty"`
	UrduText     *string        `json:"urdu_text,omitempty"`
	MergedResult map[string]any `json:"merged_result,omitempty"`

	// Form path outputs.
	FormResult *formextract.ExtractionResult `json:"form_result,omitempty"`
	FormStats  *formextract.Stats            `json:"form_stats,omitempty"`

	Errors []string `json:"errors"`
}

func newState(req RunRequest, runID string) *State {
	return &State{
		RunID:      runID,
		UserID:     req.UserID,
		UserInput:  req.UserInput,
		InputFiles: req.Files,
		Intent:     constants.IntentUnknown,
		Stage:      constants.StageStart,
		Errors:     []string{},
	}
}

// Succeeded reports whether the run finished without recording any error.
func (s *State) Succeeded() bool {
	return s.Stage == constants.StageDone && len(s.Errors) == 0
}

func (s *State) addError(msg string) {
	s.Errors = append(s.Errors, msg)
}
