package analysis

import "fmt"

// Observation is one selected lab value, already filtered by the caller.
type Observation struct {
	TestType string `json:"test_type"`
	Result   string `json:"result"`
}

// Request is the conceptual input for one submission; it is not persisted.
type Request struct {
	UserID           string        `json:"user_id"`
	Observations     []Observation `json:"observations"`
	FollowUpQuestion string        `json:"follow_up_question,omitempty"`
	PriorNarrative   string        `json:"prior_narrative,omitempty"`
}

// Validate checks submission constraints before any row is created.
// Observations may be empty only when a follow-up question carries the context.
func (r Request) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if len(r.Observations) == 0 && r.FollowUpQuestion == "" {
		return fmt.Errorf("%w: observations are required without a follow-up question", ErrInvalidRequest)
	}
	for _, o := range r.Observations {
		if o.TestType == "" || o.Result == "" {
			return fmt.Errorf("%w: observation needs test_type and result", ErrInvalidRequest)
		}
	}
	return nil
}
