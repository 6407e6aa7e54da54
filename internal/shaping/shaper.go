// Package shaping turns logical-order Arabic text into the visual, pre-joined
// form a left-to-right PDF painter can draw as-is.
package shaping

import (
	"strings"
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// Shaper converts logical text into visually ordered, contextually joined text.
// The zero value is ready to use.
type Shaper struct {
	// LeftToRight switches the paragraph base direction; slips are right-to-left.
	LeftToRight bool
}

var defaultShaper = &Shaper{}

// Shape runs the default right-to-left shaper over text.
func Shape(text string) string {
	return defaultShaper.Shape(text)
}

// Shape joins Arabic letters into their presentation forms and reorders the
// result for display. Lines are shaped independently. It never fails; text it
// cannot interpret is passed through.
func (s *Shaper) Shape(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = s.visual(Join(line))
	}
	return strings.Join(lines, "\n")
}

func (s *Shaper) base() bidi.Direction {
	if s != nil && s.LeftToRight {
		return bidi.LeftToRight
	}
	return bidi.RightToLeft
}

// visual reorders one line into display order. Runs come back from the bidi
// resolver in logical order; the paragraph is laid out right to left, so the
// run list is reversed and right-to-left runs have their content reversed.
func (s *Shaper) visual(line string) string {
	if line == "" {
		return line
	}
	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(s.base())); err != nil {
		return line
	}
	ordering, err := p.Order()
	if err != nil {
		return line
	}
	n := ordering.NumRuns()
	if n == 0 {
		return line
	}

	parts := make([]string, n)
	for i := 0; i < n; i++ {
		run := ordering.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = bidi.ReverseString(text)
		}
		parts[i] = text
	}
	if s.base() == bidi.RightToLeft {
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
	}
	return strings.Join(parts, "")
}

// Join replaces Arabic letters with their contextual presentation forms and
// collapses lam+alef pairs into ligatures. Order is not changed.
func Join(text string) string {
	if !ContainsArabic(text) {
		return text
	}
	runes := []rune(text)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		forms, ok := arabicForms[r]
		if !ok {
			out = append(out, r)
			continue
		}

		prev := neighbour(runes, i, -1)
		connectPrev := forms.joinsBackward() && prev >= 0 && joinsForward(runes[prev])

		if r == lam && i+1 < len(runes) {
			if lig, ok := lamAlef[runes[i+1]]; ok {
				if connectPrev {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				i++
				continue
			}
		}

		next := neighbour(runes, i, 1)
		connectNext := forms.dualJoining() && next >= 0 && joinsBackward(runes[next])

		switch {
		case connectPrev && connectNext:
			out = append(out, forms.medial)
		case connectPrev:
			out = append(out, forms.final)
		case connectNext:
			out = append(out, forms.initial)
		default:
			out = append(out, forms.isolated)
		}
	}
	return string(out)
}

// ContainsArabic reports whether text has any rune of the Arabic script.
func ContainsArabic(text string) bool {
	for _, r := range text {
		if language.LookupScript(r) == language.Arabic {
			return true
		}
	}
	return false
}

// neighbour returns the index of the nearest rune in direction step that is
// not a combining mark, or -1.
func neighbour(runes []rune, i, step int) int {
	for j := i + step; j >= 0 && j < len(runes); j += step {
		if !unicode.Is(unicode.Mn, runes[j]) {
			return j
		}
	}
	return -1
}

func joinsForward(r rune) bool {
	if r == tatweel {
		return true
	}
	f, ok := arabicForms[r]
	return ok && f.dualJoining()
}

func joinsBackward(r rune) bool {
	if r == tatweel {
		return true
	}
	f, ok := arabicForms[r]
	return ok && f.joinsBackward()
}
