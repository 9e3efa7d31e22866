package ai

import "context"

// Input carries everything the provider adapter needs to build a prompt.
// Either Observations plus profile fields (seed analysis) or FollowUpQuestion
// with PriorNarrative (follow-up) must be filled by the caller.
type Input struct {
	Observations     string // "glucose: 110 mg/dL, ldl: 130 mg/dL"
	Age              string
	Sex              string
	Ethnicity        string
	Location         string
	FollowUpQuestion string
	PriorNarrative   string
}

type Client interface {
	Analyze(ctx context.Context, in Input) (string, error)
}
