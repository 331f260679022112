package dedup

import (
	"math"

	"github.com/agext/levenshtein"

	"github.com/groundsignal/leadradar/internal/model"
)

// Similarity component weights. Textual fields dominate because
// republished and syndicated notices keep near-identical prose while
// categorical fields drift (abbreviated locations, re-typed sectors).
const (
	weightTitle        = 0.35
	weightDescription  = 0.25
	weightOrganization = 0.15
	weightLocation     = 0.10
	weightProjectType  = 0.075
	weightProjectValue = 0.075

	// valueTolerance is the relative difference under which two project
	// values count as equal.
	valueTolerance = 0.10
)

// Similarity scores how closely two leads match, in [0, 1]. The function
// is symmetric and scores 1.0 for a lead against itself. It combines
// normalized textual similarity on title and description with categorical
// equality on organization, location, project type, and value-within-
// tolerance on project value.
func Similarity(a, b model.Lead) float64 {
	score := weightTitle * textSimilarity(NormalizeField(a.Title), NormalizeField(b.Title))
	score += weightDescription * textSimilarity(NormalizeField(a.Description), NormalizeField(b.Description))
	score += weightOrganization * equality(NormalizeOrganization(a.Organization), NormalizeOrganization(b.Organization))
	score += weightLocation * equality(NormalizeField(a.Location), NormalizeField(b.Location))
	score += weightProjectType * equality(NormalizeField(a.ProjectType), NormalizeField(b.ProjectType))
	score += weightProjectValue * valueSimilarity(a.ProjectValue, b.ProjectValue)
	return score
}

// textSimilarity returns the normalized Levenshtein match strength of two
// already-normalized strings. Both empty compares equal.
func textSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return levenshtein.Match(a, b, nil)
}

func equality(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// valueSimilarity treats two project values as equal when their relative
// difference is within valueTolerance. Two absent values compare equal;
// one absent value does not.
func valueSimilarity(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	if a == 0 || b == 0 {
		return 0.0
	}
	diff := math.Abs(a-b) / math.Max(a, b)
	if diff <= valueTolerance {
		return 1.0
	}
	return 0.0
}
