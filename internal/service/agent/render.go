package agent

import (
	"fmt"
	"strings"

	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/tool_handler/knowledge"
)

const (
	repromptMarker = "To run your analysis I still need"

	standingOffer = "Would you like me to analyze any specific swim times? I can benchmark performance against USA Swimming standards and college recruiting times."

	redirectReply = "I specialize in swimming analysis. Do you have a swim time to benchmark?"
)

func renderReprompt(missing []string) string {
	return fmt.Sprintf("%s your %s. For example: \"analyze my 100 free, 55.00, age 14\".", repromptMarker, strings.Join(missing, ", "))
}

func renderFailure(capability string) string {
	return fmt.Sprintf("Sorry, %s is unavailable right now. Please try again in a moment.", capability)
}

// renderReport is the fixed performance-analysis shape.
func renderReport(result benchmark.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString("🏊 Swim Performance Analysis\n\n")

	sb.WriteString("📊 Performance Summary\n")
	sb.WriteString(fmt.Sprintf("- Time: %s (%s %s)\n", benchmark.FormatSeconds(result.InputSeconds), result.Event, result.Course))
	sb.WriteString(fmt.Sprintf("- Percentile Ranking: %.0f%% (Top %.0f%% nationally)\n", result.Percentile, 100-result.Percentile))
	sb.WriteString(fmt.Sprintf("- USA Swimming Standard: %s\n", result.StandardLevel))
	sb.WriteString(fmt.Sprintf("- Ability Level: %s\n", result.AbilityTier))

	if result.Fallback {
		sb.WriteString(fmt.Sprintf("- Note: no standards exist for your exact age group, so the %s group was used instead\n", result.AgeGroupUsed))
	}

	sb.WriteString("\n🎓 College Recruitment Analysis\n")
	for _, division := range benchmark.Divisions {
		qualified, ok := result.Recruiting[division]
		switch {
		case !ok:
			sb.WriteString(fmt.Sprintf("- %s: No data\n", division))
		case qualified:
			sb.WriteString(fmt.Sprintf("- %s: Qualified ✅\n", division))
		default:
			sb.WriteString(fmt.Sprintf("- %s: Not Qualified ❌\n", division))
		}
	}

	sb.WriteString("\n🎯 Next Goals\n")
	if result.NextGoal.AtTopLevel {
		sb.WriteString("- Next Standard: none, you are already at the top level\n")
	} else {
		sb.WriteString(fmt.Sprintf("- Next Standard: %s at %s\n", result.NextGoal.TargetLevel, benchmark.FormatSeconds(result.NextGoal.TargetSeconds)))
		sb.WriteString(fmt.Sprintf("- Time Drop Needed: %.2f seconds\n", result.NextGoal.SecondsToDrop))
	}

	return sb.String()
}

// renderDomainAnswer is the fixed free-form shape: retrieved knowledge plus
// the standing offer to run an analysis.
func renderDomainAnswer(prose string, chunks []knowledge.Snippet) string {
	var sb strings.Builder

	if len(prose) > 0 {
		sb.WriteString(strings.TrimSpace(prose))
	} else if len(chunks) > 0 {
		sb.WriteString("Here is what I know:\n")
		for _, chunk := range chunks {
			sb.WriteString(fmt.Sprintf("- %s\n", strings.TrimSpace(chunk.Text)))
		}
	} else {
		sb.WriteString("I don't have anything on that in my knowledge base yet.")
	}

	sb.WriteString("\n\n")
	sb.WriteString(standingOffer)

	return sb.String()
}
