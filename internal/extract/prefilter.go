package extract

import (
	"regexp"
	"strings"

	"github.com/teamyoo/atomic-router/internal/domain"
)

// toolKeywords maps known tool names to disjunctive trigger patterns.
// Matching runs on lowercased text. Tools absent from this map (caller
// custom tools) are never narrowed to; the model disambiguates them.
var toolKeywords = map[string][]*regexp.Regexp{
	ToolWeather: {
		regexp.MustCompile(`\bweather\b`),
		regexp.MustCompile(`\bforecast\b`),
		regexp.MustCompile(`\btemperature\b`),
	},
	ToolAlarm: {
		regexp.MustCompile(`\balarm\b`),
		regexp.MustCompile(`\bwake\s+me\b`),
	},
	ToolMessage: {
		regexp.MustCompile(`\b(send|text)\b.*\b(message|saying|say)\b`),
		regexp.MustCompile(`\btext\s+\w+`),
		regexp.MustCompile(`\b(send|text)\s+\w+\s+saying\b`),
	},
	ToolReminder: {
		regexp.MustCompile(`\bremind\b`),
		regexp.MustCompile(`\breminder\b`),
	},
	ToolContacts: {
		regexp.MustCompile(`\b(find|look\s*up|search)\b.*\bcontact`),
		regexp.MustCompile(`\b(find|look\s*up)\s+\w+\s+in\s+my\s+contact`),
	},
	ToolMusic: {
		regexp.MustCompile(`\bplay\b`),
	},
	ToolTimer: {
		regexp.MustCompile(`\btimer\b`),
		regexp.MustCompile(`\b\d+\s*min`),
	},
}

// Narrow returns a single-tool list when exactly one known tool's trigger
// patterns match the text, otherwise the full tool list unchanged. It only
// shrinks the search space for the on-device model; ambiguity is resolved
// downstream, never here.
func Narrow(text string, tools []domain.Tool) []domain.Tool {
	lower := strings.ToLower(text)

	var matched []string
	for name, patterns := range toolKeywords {
		if _, available := domain.FindTool(tools, name); !available {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(lower) {
				matched = append(matched, name)
				break
			}
		}
	}

	if len(matched) != 1 {
		return tools
	}
	tool, _ := domain.FindTool(tools, matched[0])
	return []domain.Tool{tool}
}

// BestTool returns the narrowed tool's name when Narrow singles one out,
// or "" when the text stays ambiguous.
func BestTool(text string, tools []domain.Tool) string {
	if narrowed := Narrow(text, tools); len(narrowed) == 1 {
		return narrowed[0].Name
	}
	return ""
}
