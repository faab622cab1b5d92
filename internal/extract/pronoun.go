package extract

import (
	"regexp"
	"strings"
)

var capitalizedWordRE = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// Sentence-initial action verbs and question words show up capitalized but
// are never names.
var notProperNouns = map[string]struct{}{
	"set": {}, "send": {}, "find": {}, "check": {}, "play": {}, "remind": {},
	"text": {}, "look": {}, "search": {}, "wake": {}, "what": {}, "how": {},
	"tell": {}, "get": {}, "create": {},
}

var recipientPronouns = map[string]struct{}{
	"him": {}, "her": {}, "them": {}, "he": {}, "she": {}, "they": {},
}

// ProperNouns returns the capitalized words of text that are plausibly
// names, in order of appearance.
func ProperNouns(text string) []string {
	var nouns []string
	for _, w := range capitalizedWordRE.FindAllString(text, -1) {
		if _, excluded := notProperNouns[strings.ToLower(w)]; excluded {
			continue
		}
		nouns = append(nouns, w)
	}
	return nouns
}

// IsPronoun reports whether a recipient value is a referring pronoun rather
// than a name.
func IsPronoun(recipient string) bool {
	_, ok := recipientPronouns[strings.ToLower(recipient)]
	return ok
}

// ResolvePronoun substitutes a pronoun recipient with the first proper noun
// of the request. Non-pronoun recipients and empty noun lists pass through
// unchanged.
func ResolvePronoun(recipient string, properNouns []string) string {
	if IsPronoun(recipient) && len(properNouns) > 0 {
		return properNouns[0]
	}
	return recipient
}
