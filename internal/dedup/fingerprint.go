// Package dedup provides the two duplicate-detection primitives shared by
// the pipeline and the validation engine: a cheap exact-match fingerprint
// for in-batch collapsing, and an approximate similarity score for
// cross-run detection against stored history.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/groundsignal/leadradar/internal/model"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	caseFolder   = cases.Fold()
)

// legalSuffixes lists common legal entity suffixes stripped during
// organization normalization so that "Acme Builders LLC" and
// "Acme Builders, Inc." collapse to the same key.
var legalSuffixes = []string{
	" llc", " l.l.c.",
	" inc", " inc.", " incorporated",
	" corp", " corp.", " corporation",
	" ltd", " ltd.", " limited",
	" lp", " l.p.",
	" llp", " l.l.p.",
	" co", " co.",
	" plc",
	" pllc",
}

// NormalizeField case-folds a field and collapses runs of whitespace,
// so that values differing only in case or spacing compare equal.
func NormalizeField(s string) string {
	s = caseFolder.String(strings.TrimSpace(s))
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return s
}

// NormalizeOrganization applies NormalizeField and strips a trailing
// legal suffix and common punctuation.
func NormalizeOrganization(s string) string {
	s = NormalizeField(s)
	s = strings.NewReplacer(",", "", ".", "", "'", "", "\"", "", "&", "and").Replace(s)
	for _, suffix := range legalSuffixes {
		trimmed := strings.NewReplacer(",", "", ".", "").Replace(suffix)
		if strings.HasSuffix(s, trimmed) {
			s = strings.TrimSuffix(s, trimmed)
			break
		}
	}
	return strings.TrimSpace(s)
}

// Fingerprint derives the exact-match dedup key for a lead from its
// normalized (title, organization, location, project_type) tuple. Two
// leads with equal fingerprints are treated as certain duplicates
// regardless of any other field.
func Fingerprint(lead model.Lead) string {
	parts := []string{
		NormalizeField(lead.Title),
		NormalizeOrganization(lead.Organization),
		NormalizeField(lead.Location),
		NormalizeField(lead.ProjectType),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}
