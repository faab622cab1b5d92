// Package extract implements the deterministic half of the routing pipeline:
// everything that pulls structure out of raw text without a model.
//
// It provides four pieces:
//
//   - Narrow: a keyword pre-filter that reduces the candidate tool list to a
//     single tool when exactly one known tool's patterns match, and returns
//     the full list otherwise. It never rejects a request.
//   - Manual: a per-tool cascade of regex rules that extracts a complete
//     function call straight from text, used when the on-device model is not
//     trusted. Rules are ordered and the first match wins.
//   - Postprocess: argument repair. For known tools the same extraction rules
//     are re-run against the call's originating text and the results override
//     whatever the model produced; the model is trusted for tool selection,
//     not argument values. All tools, known or not, get generic cleaning
//     (quote/punctuation stripping, whitespace collapsing, ISO timestamp
//     humanization, numeric coercion).
//   - ProperNouns / ResolvePronoun: replacement of a pronoun recipient with
//     the first capitalized non-verb word of the full request.
//
// Known tools form a closed set (weather, alarm, message, reminder,
// contacts, music, timer); anything else is passthrough and only receives
// generic cleaning.
package extract
