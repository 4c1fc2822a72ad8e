// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package filter detects and masks banned terms in answer text.
package filter

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// MaskRune replaces every rune inside a matched span.
const MaskRune = '*'

// Verdict is the outcome of running Apply on one text.
type Verdict struct {
	IsFlagged    bool
	RenderedText string
	Reason       string
}

// Apply matches every term case-insensitively as a literal and masks each matched
// span with MaskRune, one mask rune per original rune. Spans from different terms
// are merged before masking, so the rendered text always has the same rune count
// as the input and only runes inside a span change.
//
// Apply keeps no state between calls; callers pass the current term set each time.
func Apply(text string, terms []string) Verdict {
	terms = normalize(terms)
	if len(terms) == 0 || text == "" {
		return Verdict{RenderedText: text}
	}

	masked := make([]bool, len(text))
	var matched []string

	for _, term := range terms {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
		spans := re.FindAllStringIndex(text, -1)
		if len(spans) == 0 {
			continue
		}
		matched = append(matched, term)
		for _, span := range spans {
			for i := span[0]; i < span[1]; i++ {
				masked[i] = true
			}
		}
	}

	if len(matched) == 0 {
		return Verdict{RenderedText: text}
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, r := range text {
		if masked[i] {
			b.WriteRune(MaskRune)
			continue
		}
		b.WriteRune(r)
	}

	return Verdict{
		IsFlagged:    true,
		RenderedText: b.String(),
		Reason:       "banned terms: " + strings.Join(matched, ", "),
	}
}

// normalize drops blank terms and duplicates that differ only by case.
func normalize(terms []string) []string {
	cleaned := lo.FilterMap(terms, func(term string, _ int) (string, bool) {
		term = strings.TrimSpace(term)
		return term, term != ""
	})
	return lo.UniqBy(cleaned, strings.ToLower)
}
