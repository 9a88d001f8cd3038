// Package insight generates narrative text about a day's activity using an
// OpenAI-compatible chat completions endpoint (Ollama by default).
package insight

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/daylog/pkg/activity"
)

const (
	// SummaryFallback is stored when a summary cannot be generated.
	SummaryFallback = "Unable to generate summary at this time."
	// InsightFallback is returned when an insight cannot be generated.
	InsightFallback = "Unable to generate additional insight at this time."
)

// Generator produces text for a single activity record.
type Generator interface {
	Summary(ctx context.Context, r activity.Record) (string, error)
	Insight(ctx context.Context, r activity.Record) (string, error)
}

// Prompt is a system prompt plus the user content sent with it.
type Prompt struct {
	System string
	User   string
}

const (
	summarySystem = "You are an AI assistant that provides insights on daily activities."
	insightSystem = "You are an AI assistant that provides in-depth insights on daily activities and habits."
)

// SummaryPrompt asks for a brief summary with suggestions.
func SummaryPrompt(r activity.Record) Prompt {
	var b strings.Builder
	b.WriteString("Analyze the following daily activity breakdown and provide a brief summary with insights and suggestions:\n")
	writeBreakdown(&b, r)
	return Prompt{System: summarySystem, User: b.String()}
}

// InsightPrompt asks for longer term recommendations.
func InsightPrompt(r activity.Record) Prompt {
	var b strings.Builder
	b.WriteString("Provide additional insights and recommendations based on this activity:\n")
	writeBreakdown(&b, r)
	b.WriteString("Focus on long-term trends, health impacts, and productivity suggestions.")
	return Prompt{System: insightSystem, User: b.String()}
}

func writeBreakdown(b *strings.Builder, r activity.Record) {
	fmt.Fprintf(b, "Date: %s\n", r.Date)
	for _, c := range activity.Categories() {
		fmt.Fprintf(b, "%s: %s hours\n", c, activity.FormatHours(r.Hours(c)))
	}
}
