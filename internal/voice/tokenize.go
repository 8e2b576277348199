package voice

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize splits text on non-word boundaries and lower-cases every token
func Tokenize(text string) []string {
	tokens := wordPattern.FindAllString(text, -1)
	for i, tok := range tokens {
		tokens[i] = strings.ToLower(tok)
	}
	return tokens
}

type phrase struct {
	text   string
	tokens []string
}

// match is one phrase found in a token stream
type match struct {
	phrase   string
	position int
}

func compilePhrases(list []string) []phrase {
	phrases := make([]phrase, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, raw := range list {
		tokens := Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		key := strings.Join(tokens, " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		phrases = append(phrases, phrase{text: key, tokens: tokens})
	}
	// longer phrases claim their tokens first
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i].tokens) > len(phrases[j].tokens)
	})
	return phrases
}

// findPhrases returns each phrase that occurs as a contiguous token run, once,
// ordered by first occurrence. Every occurrence consumes its tokens so a
// shorter phrase never matches inside a longer one.
func findPhrases(tokens []string, phrases []phrase) []match {
	consumed := make([]bool, len(tokens))
	var matches []match
	for _, p := range phrases {
		first := -1
		for i := 0; i+len(p.tokens) <= len(tokens); i++ {
			if !runMatches(tokens, consumed, i, p.tokens) {
				continue
			}
			for k := range p.tokens {
				consumed[i+k] = true
			}
			if first < 0 {
				first = i
			}
			i += len(p.tokens) - 1
		}
		if first >= 0 {
			matches = append(matches, match{phrase: p.text, position: first})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].position < matches[j].position
	})
	return matches
}

func runMatches(tokens []string, consumed []bool, start int, want []string) bool {
	for k, w := range want {
		if consumed[start+k] || tokens[start+k] != w {
			return false
		}
	}
	return true
}
