// Package intent decides whether a user request expresses one tool-call
// intent or several, and splits multi-intent requests into atomic parts.
//
// Count matches the text against one action-pattern category per tool
// capability (alarm, timer, messaging, weather, music, reminder,
// contact-search). A category contributes at most one to the count no matter
// how many of its patterns fire, and the result never drops below one.
//
// Decompose applies a prioritized cascade of splitting rules, each tried
// only when the previous one produced fewer than two parts:
//
//  1. split on a comma followed by "and"
//  2. split on " and " only when an action verb follows
//  3. split on sentence connectors ("and then", "also", ". Then")
//  4. split on every " and " (only when Count reported two or more intents)
//
// Candidate parts are further split at commas followed by an action verb,
// and fragments shorter than four characters are dropped. A failed
// decomposition returns the original text as a single-element slice; callers
// distinguish that from a genuine single intent via Count.
//
// Boundaries are always anchored on action verbs so that argument content
// containing the word "and" (a message body, a song title) is never torn
// apart.
package intent
