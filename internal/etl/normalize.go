// Package etl imports reference data and aggregated vote totals from
// the returning officer's CSV exports and maps free-form party names to
// canonical party ids.
package etl

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// foldCaser is a package-level Unicode case folder for performance.
var foldCaser = cases.Fold()

// NormalizeName canonicalizes a party or candidate name for matching:
// NFKC normalization, dash unification, whitespace collapsing, and
// Unicode case folding. The official exports mix typographic dashes and
// double spaces across years, so raw equality is useless.
func NormalizeName(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	s = strings.Join(strings.Fields(s), " ")
	return foldCaser.String(s)
}
