package prompt

import (
	"fmt"

	"github.com/RocketSloth/LabBuddy/internal/domain/ai"
)

// GetSystemPrompt keeps the model in a careful, narrative register.
func GetSystemPrompt() string {
	return `You are a careful medical-information assistant reviewing personal lab results. Write a short narrative interpretation in plain language for the patient. Mention which values look normal, which look out of range, and sensible next steps. Do not give a diagnosis; recommend discussing results with a clinician. Respond with prose only, no markdown.`
}

// Seed builds the first-analysis prompt from observations and the subject profile.
func Seed(in ai.Input) string {
	return fmt.Sprintf(
		"I have the following lab test results: %s. The patient's profile information is as follows: Age: %s, Sex: %s, Ethnicity: %s, Location: %s. Please provide an analysis.",
		in.Observations, in.Age, in.Sex, in.Ethnicity, in.Location,
	)
}

// FollowUp builds the follow-up prompt around the prior narrative.
func FollowUp(in ai.Input) string {
	if in.PriorNarrative == "" {
		return in.FollowUpQuestion
	}
	return fmt.Sprintf(
		"Earlier you gave this analysis of my lab results: %q. Follow-up question: %s",
		in.PriorNarrative, in.FollowUpQuestion,
	)
}

// Build picks the right prompt for the input.
func Build(in ai.Input) string {
	if in.FollowUpQuestion != "" {
		return FollowUp(in)
	}
	return Seed(in)
}
