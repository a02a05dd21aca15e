package notebook

import (
	"regexp"
	"strings"
)

// wordRe matches a maximal run of letters, digits or underscores. Anything
// else separates tokens, combining marks and punctuation included.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokens splits text into lowercase word tokens in order of appearance.
func Tokens(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

func hasToken(text, term string) bool {
	if term == "" {
		return false
	}
	set := make(map[string]struct{})
	for _, tok := range Tokens(text) {
		set[tok] = struct{}{}
	}
	_, ok := set[term]
	return ok
}
