package intent

import "regexp"

// actionCategory groups the patterns that recognize one tool capability.
// Multiple patterns in a category still count as a single intent, so
// "send a message to Bob saying hi" is one messaging intent even though
// both messaging patterns match it.
type actionCategory struct {
	name     string
	patterns []*regexp.Regexp
}

var actionCategories = []actionCategory{
	{"alarm", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(set\s+(an?\s+)?alarm|wake\s+me)\b`),
	}},
	{"timer", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(set\s+(a\s+)?(timer|\d+\s*min))\b`),
		regexp.MustCompile(`(?i)\bstart\s+a\s+timer\b`),
	}},
	{"messaging", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(send|text)\s+\w+`),
		regexp.MustCompile(`(?i)\bmessage\b.*\bsaying\b`),
	}},
	{"weather", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(check|get|what'?s?|how'?s?)\s+(the\s+)?weather\b`),
		regexp.MustCompile(`(?i)\b(check|get)\s+(the\s+)?(forecast|temperature)\b`),
	}},
	{"music", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(play)\s+`),
	}},
	{"reminder", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(remind|create\s+a?\s*reminder)\b`),
	}},
	{"contact-search", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(find|look\s+up|search)\b`),
	}},
}

// Count returns the number of distinct action categories matched by the
// text, floored at one so an unrecognized request still routes as a single
// intent.
func Count(text string) int {
	count := 0
	for _, cat := range actionCategories {
		for _, p := range cat.patterns {
			if p.MatchString(text) {
				count++
				break
			}
		}
	}
	if count < 1 {
		return 1
	}
	return count
}
