package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teamyoo/atomic-router/internal/domain"
)

// rule attempts to pull a complete argument set for one tool out of text.
// Rules run in order and the first match wins.
type rule func(text string) (map[string]any, bool)

var (
	clockTimeRE = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)`)
	bareHourRE  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)`)
	noonRE      = regexp.MustCompile(`(?i)\bnoon\b`)
	midnightRE  = regexp.MustCompile(`(?i)\bmidnight\b`)
	oClockRE    = regexp.MustCompile(`(?i)\b(\d{1,2})\s+o'?clock\b`)

	timerMinutesRE = regexp.MustCompile(`(?i)(\d+)\s*(?:minute|min)`)
	timerHoursRE   = regexp.MustCompile(`(?i)(\d+)\s*hour`)
	timerSecondsRE = regexp.MustCompile(`(?i)(\d+)\s*second`)

	playSongRE  = regexp.MustCompile(`(?i)(?:play|put\s+on|listen\s+to)\s+(.+?)\s*[.,!?]*\s*$`)
	someMusicRE = regexp.MustCompile(`(?i)^some\s+(\w+)\s+music$`)

	weatherPlaceRE     = regexp.MustCompile(`(?i)(?:weather|forecast|temperature)\s+(?:like\s+)?(?:in|for|at)\s+(.+?)\s*[.,!?]*\s*$`)
	capitalizedPlaceRE = regexp.MustCompile(`\b(?:in|for|at)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`)

	reminderRE     = regexp.MustCompile(`(?i)remind\s+(?:me\s+)?(?:about|to)\s+(.+?)\s+at\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm))`)
	leadArticleRE  = regexp.MustCompile(`(?i)^(?:the|a|an)\s+`)
	bareHourTimeRE = regexp.MustCompile(`(?i)^(\d{1,2})\s*(AM|PM)$`)

	contactsRE = regexp.MustCompile(`(?i)(?:find|look\s*up|search)(?:\s+for)?\s+(\w+)\s+(?:in\s+)?(?:my\s+)?contact`)

	messageToRE   = regexp.MustCompile(`(?i)(?:send|text)\s+(?:a\s+)?message\s+to\s+(\w+)\s+saying\s+(.+)$`)
	messageSayRE  = regexp.MustCompile(`(?i)(?:send|text)\s+(\w+)\s+(?:a\s+)?(?:message\s+)?saying\s+(.+)$`)
	tellThatRE    = regexp.MustCompile(`(?i)\btell\s+(\w+)\s+that\s+(.+)$`)
	messageBareRE = regexp.MustCompile(`(?i)\bmessage\s+(\w+)\s+saying\s+(.+)$`)

	// Argument values in multi-intent text stop where the next action
	// starts, so a following part is never swallowed into this one.
	verbBoundaryRE = regexp.MustCompile(`(?i)^(.+?)(?:\s*,\s*|\s+and\s+)(?:check|get|set|play|remind|find|look|search|wake|send|text|tell)\b`)

	contactStopWords = map[string]struct{}{
		"my": {}, "the": {}, "a": {}, "an": {}, "for": {}, "me": {}, "in": {}, "up": {},
	}
)

var ruleSets = map[Kind][]rule{
	KindAlarm: {
		func(text string) (map[string]any, bool) {
			m := clockTimeRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			return map[string]any{"hour": atoi(m[1]), "minute": atoi(m[2])}, true
		},
		func(text string) (map[string]any, bool) {
			m := bareHourRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			return map[string]any{"hour": atoi(m[1]), "minute": 0}, true
		},
		func(text string) (map[string]any, bool) {
			if noonRE.MatchString(text) {
				return map[string]any{"hour": 12, "minute": 0}, true
			}
			if midnightRE.MatchString(text) {
				return map[string]any{"hour": 0, "minute": 0}, true
			}
			return nil, false
		},
		func(text string) (map[string]any, bool) {
			m := oClockRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			return map[string]any{"hour": atoi(m[1]), "minute": 0}, true
		},
	},

	KindTimer: {
		func(text string) (map[string]any, bool) {
			m := timerMinutesRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			return map[string]any{"minutes": atoi(m[1])}, true
		},
		func(text string) (map[string]any, bool) {
			m := timerHoursRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			return map[string]any{"minutes": atoi(m[1]) * 60}, true
		},
		func(text string) (map[string]any, bool) {
			m := timerSecondsRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			minutes := atoi(m[1]) / 60
			if minutes < 1 {
				minutes = 1
			}
			return map[string]any{"minutes": minutes}, true
		},
	},

	KindMusic: {
		func(text string) (map[string]any, bool) {
			m := playSongRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			song := NormalizeSong(m[1])
			if song == "" {
				return nil, false
			}
			return map[string]any{"song": song}, true
		},
	},

	KindWeather: {
		func(text string) (map[string]any, bool) {
			m := weatherPlaceRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			location := strings.TrimRight(strings.TrimSpace(trimAtVerb(m[1])), ".,!?")
			if location == "" {
				return nil, false
			}
			return map[string]any{"location": location}, true
		},
		func(text string) (map[string]any, bool) {
			m := capitalizedPlaceRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			return map[string]any{"location": strings.TrimSpace(m[1])}, true
		},
	},

	KindReminder: {
		func(text string) (map[string]any, bool) {
			m := reminderRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			title := leadArticleRE.ReplaceAllString(strings.TrimSpace(m[1]), "")
			when := normalizeReminderTime(m[2])
			if title == "" {
				return nil, false
			}
			return map[string]any{"title": title, "time": when}, true
		},
	},

	KindContacts: {
		func(text string) (map[string]any, bool) {
			m := contactsRE.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			name := m[1]
			if _, stop := contactStopWords[strings.ToLower(name)]; stop {
				return nil, false
			}
			return map[string]any{"query": name}, true
		},
	},

	KindMessage: {
		messageRule(messageToRE),
		messageRule(messageSayRE),
		messageRule(tellThatRE),
		messageRule(messageBareRE),
	},
}

// messageRule builds a rule from a recipient/body capture pattern, trimming
// the body at the next action-verb boundary and stripping trailing
// punctuation.
func messageRule(re *regexp.Regexp) rule {
	return func(text string) (map[string]any, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil, false
		}
		body := strings.TrimRight(strings.TrimSpace(trimAtVerb(m[2])), ".,!?")
		if m[1] == "" || body == "" {
			return nil, false
		}
		return map[string]any{"recipient": m[1], "message": body}, true
	}
}

// Manual extracts a complete function call for toolName directly from text.
// It returns false when no rule for the tool matches; callers must treat
// that as extraction failure, never as an empty call.
func Manual(text, toolName string) (domain.FunctionCall, bool) {
	rules, known := ruleSets[KindOf(toolName)]
	if !known {
		return domain.FunctionCall{}, false
	}
	for _, r := range rules {
		if args, ok := r(text); ok {
			return domain.FunctionCall{Name: toolName, Arguments: args}, true
		}
	}
	return domain.FunctionCall{}, false
}

// NormalizeSong strips trailing punctuation, cuts the title at the next
// action-verb boundary, and reduces "some X music" filler to "X".
func NormalizeSong(song string) string {
	song = strings.TrimRight(strings.TrimSpace(trimAtVerb(song)), ".,!?")
	if m := someMusicRE.FindStringSubmatch(song); m != nil {
		return m[1]
	}
	return song
}

// trimAtVerb cuts text at the first comma-or-"and" boundary that introduces
// a recognized action verb.
func trimAtVerb(text string) string {
	if m := verbBoundaryRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// normalizeReminderTime uppercases the AM/PM suffix and expands a bare hour
// into H:00 form.
func normalizeReminderTime(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if m := bareHourTimeRE.FindStringSubmatch(t); m != nil {
		return m[1] + ":00 " + m[2]
	}
	// Ensure a space before the suffix ("2:30PM" -> "2:30 PM").
	if idx := strings.IndexAny(t, "AP"); idx > 0 && t[idx-1] != ' ' {
		t = t[:idx] + " " + t[idx:]
	}
	return t
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
