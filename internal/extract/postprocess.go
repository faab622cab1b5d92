package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/teamyoo/atomic-router/internal/domain"
)

var (
	isoTimestampRE = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):\d{2}`)
	integerLikeRE  = regexp.MustCompile(`^-?\d+$`)
)

// Postprocess repairs the arguments of a single call using its originating
// text: the whole request for single-intent routing, the atomic part for
// multi-intent routing.
//
// Every argument gets generic cleaning. For known tools the deterministic
// extraction rules then re-run against the source text and override the
// model's values; model values survive only where no rule matched. The
// on-device model is trusted for tool selection, not for argument values.
func Postprocess(call domain.FunctionCall, sourceText string) domain.FunctionCall {
	args := make(map[string]any, len(call.Arguments))
	for k, v := range call.Arguments {
		args[k] = CleanValue(v)
	}

	kind := KindOf(call.Name)
	if kind != KindUnknown && sourceText != "" {
		if extracted, ok := Manual(sourceText, call.Name); ok {
			mergeExtracted(kind, args, extracted.Arguments, sourceText)
		}
	}

	switch kind {
	case KindAlarm:
		coerceInt(args, "hour")
		coerceInt(args, "minute")
		if v, present := args["minute"]; !present || v == nil {
			args["minute"] = 0
		}
	case KindTimer:
		coerceInt(args, "minutes")
	case KindMusic:
		if song, ok := args["song"].(string); ok {
			args["song"] = NormalizeSong(song)
		}
	}

	for k, v := range args {
		if s, ok := v.(string); ok && integerLikeRE.MatchString(s) {
			if n, err := strconv.Atoi(s); err == nil {
				args[k] = n
			}
		}
	}

	return domain.FunctionCall{Name: call.Name, Arguments: args}
}

// mergeExtracted overlays regex-extracted values on top of the model's.
// A pronoun recipient only overrides when it can be resolved; otherwise an
// already-resolved recipient from per-part processing is kept.
func mergeExtracted(kind Kind, args, extracted map[string]any, sourceText string) {
	if kind == KindMessage {
		recipient, _ := extracted["recipient"].(string)
		if IsPronoun(recipient) {
			if nouns := ProperNouns(sourceText); len(nouns) > 0 {
				extracted["recipient"] = nouns[0]
			} else if prev, ok := args["recipient"].(string); ok && prev != "" && !IsPronoun(prev) {
				extracted["recipient"] = prev
			}
		}
	}
	for k, v := range extracted {
		args[k] = v
	}
}

// CleanValue normalizes a string argument: surrounding quotes, trailing
// punctuation and redundant whitespace are stripped, and an embedded
// ISO-8601 timestamp is rewritten in H:MM AM/PM display form. Non-string
// values pass through.
func CleanValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!,;:")
	s = strings.Trim(s, `'"`)
	s = strings.Join(strings.Fields(s), " ")

	if m := isoTimestampRE.FindStringSubmatch(s); m != nil {
		hour := atoi(m[4])
		minute := atoi(m[5])
		ampm := "AM"
		if hour >= 12 {
			ampm = "PM"
		}
		display := hour
		if display > 12 {
			display -= 12
		}
		if display == 0 {
			display = 12
		}
		s = fmt.Sprintf("%d:%02d %s", display, minute, ampm)
	}

	return s
}

// coerceInt converts numeric-looking string or float values to int in
// place. Unparseable values are left alone for the validator to judge.
func coerceInt(args map[string]any, key string) {
	switch v := args[key].(type) {
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			args[key] = int(f)
		}
	case float64:
		args[key] = int(v)
	case float32:
		args[key] = int(v)
	}
}
