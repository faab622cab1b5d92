package intent

import (
	"regexp"
	"strings"
)

const actionVerbs = `set|send|text|check|get|what|play|remind|create|find|look|search|wake`

var (
	commaAndSplit = regexp.MustCompile(`(?i),\s+and\s+`)

	// Group 1 captures the action verb so the split can re-anchor the next
	// part on it (RE2 has no lookahead).
	andBeforeVerb   = regexp.MustCompile(`(?i)\s+and\s+((?:` + actionVerbs + `)\s)`)
	commaBeforeVerb = regexp.MustCompile(`(?i),\s+((?:` + actionVerbs + `)\s)`)

	connectorSplit = regexp.MustCompile(`(?i)\s+and\s+then\s+|,?\s+also\s+|\.\s+then\s+`)
	bareAndSplit   = regexp.MustCompile(`(?i)\s+and\s+`)
)

// minFragmentLen is exclusive: anything this short is discarded as a
// punctuation or connective fragment.
const minFragmentLen = 4

// Decompose splits a multi-intent request into atomic parts. intents is the
// Count of the same text; the unconditional " and " split only applies when
// it reports at least two intents, so single-intent sentences survive intact
// even when their argument content contains "and".
//
// A result of length one means decomposition failed (or was never needed);
// it always contains the original text unchanged.
func Decompose(text string, intents int) []string {
	parts := commaAndSplit.Split(text, -1)

	if len(parts) < 2 {
		parts = splitKeepingVerb(text, andBeforeVerb)
	}
	if len(parts) < 2 {
		parts = connectorSplit.Split(text, -1)
	}
	if len(parts) < 2 && intents >= 2 {
		parts = bareAndSplit.Split(text, -1)
	}

	// Each candidate may itself hide a comma-separated intent.
	expanded := make([]string, 0, len(parts))
	for _, part := range parts {
		expanded = append(expanded, splitKeepingVerb(part, commaBeforeVerb)...)
	}

	cleaned := make([]string, 0, len(expanded))
	for _, part := range expanded {
		part = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(part), "."))
		if len(part) >= minFragmentLen {
			cleaned = append(cleaned, part)
		}
	}

	if len(cleaned) < 2 {
		return []string{text}
	}
	return cleaned
}

// splitKeepingVerb splits text at every match of re, which must capture the
// trailing action verb as group 1. The boundary text is dropped but the verb
// starts the next part.
func splitKeepingVerb(text string, re *regexp.Regexp) []string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	parts := make([]string, 0, len(matches)+1)
	start := 0
	for _, m := range matches {
		if m[0] < start {
			continue
		}
		parts = append(parts, text[start:m[0]])
		start = m[2]
	}
	parts = append(parts, text[start:])
	return parts
}
