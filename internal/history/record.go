// Package history is the append-only archive of finished generations. Each
// record captures the outcome together with a snapshot of the form state that
// produced it, so any record replays read-only without touching live form
// state or the network.
package history

import (
	"time"

	"github.com/MoAI-tw/introscript/internal/generate"
	"github.com/MoAI-tw/introscript/internal/profile"
)

// Record is one archived generation. ID and Timestamp are assigned by the
// store on append; records are immutable afterwards.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	ProjectID    string `json:"projectId,omitempty"`
	ProjectTitle string `json:"projectTitle,omitempty"`

	Provider string `json:"modelProvider"`
	Model    string `json:"modelId"`

	Content string `json:"content"`

	// PromptTemplate is the template body in effect; ActualPrompt is the
	// fully rendered prompt that was sent.
	PromptTemplate string `json:"promptTemplate,omitempty"`
	ActualPrompt   string `json:"actualPrompt,omitempty"`

	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	EstimatedCost    float64 `json:"estimatedCost"`

	// FormData is the form snapshot taken at generation time.
	FormData *profile.FormData `json:"formData,omitempty"`
}

// clone returns a copy whose form snapshot shares nothing with the receiver,
// so neither the archive nor a caller-held copy can mutate the other.
func (r Record) clone() Record {
	r.FormData = r.FormData.Clone()
	return r
}

// FromOutcome builds the record body for a successful outcome. The store
// fills in ID and Timestamp on append.
func FromOutcome(outcome *generate.Outcome, form *profile.FormData) Record {
	return Record{
		ProjectID:        outcome.ProjectID,
		ProjectTitle:     outcome.ProjectTitle,
		Provider:         outcome.Provider,
		Model:            outcome.Model,
		Content:          outcome.Content,
		ActualPrompt:     outcome.Prompt,
		PromptTokens:     outcome.PromptTokens,
		CompletionTokens: outcome.CompletionTokens,
		TotalTokens:      outcome.TotalTokens,
		EstimatedCost:    outcome.EstimatedCost,
		FormData:         form,
	}
}
