package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks blocked words in chat messages before they are stored.
// Matching runs over a normalized view of the text (lowercased, punctuation
// and spacing stripped) so that spaced-out or punctuated variants of a
// blocked word are still caught, while the original message keeps its
// layout: only the offending runes are replaced.
type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the Aho-Corasick automaton over the normalized
// blocked-word list. An empty list yields a pass-through moderator.
func NewModerator(blockedWords []string, mask rune) (*Moderator, error) {
	if len(blockedWords) == 0 {
		return &Moderator{mask: mask}, nil
	}

	patterns := make([][]rune, len(blockedWords))
	for i, word := range blockedWords {
		patterns[i] = normalize([]rune(word), nil)
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, mask: mask}, nil
}

// Clean returns the message with every blocked-word occurrence masked.
func (m *Moderator) Clean(message string) string {
	if m.machine == nil {
		return message
	}

	original := []rune(message)
	var origIdx []int
	normalized := normalize(original, &origIdx)
	if len(normalized) == 0 {
		return message
	}

	terms := m.machine.MultiPatternSearch(normalized, false)
	if len(terms) == 0 {
		return message
	}

	for _, term := range terms {
		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Mask the original span covered by the normalized match,
		// separators included.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			original[i] = m.mask
		}
	}
	return string(original)
}

// normalize lowercases and drops punctuation, spacing and symbols. When
// origIdx is non-nil it records, per kept rune, its position in the input
// so matches can be mapped back.
func normalize(input []rune, origIdx *[]int) []rune {
	out := make([]rune, 0, len(input))
	for i, r := range input {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
		if origIdx != nil {
			*origIdx = append(*origIdx, i)
		}
	}
	return out
}
