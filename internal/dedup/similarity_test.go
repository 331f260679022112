package dedup

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/groundsignal/leadradar/internal/model"
)

func randomLead(rng *rand.Rand) model.Lead {
	titles := []string{"School roof replacement", "Data center build-out", "Mixed use tower", ""}
	orgs := []string{"Acme Builders", "City of Portland", "", "Summit Development"}
	locs := []string{"Portland, OR", "Denver, CO", ""}
	types := []string{"commercial", "institutional", ""}
	when := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(rng.Intn(300)) * 24 * time.Hour)
	return model.Lead{
		Title:         titles[rng.Intn(len(titles))],
		Description:   titles[rng.Intn(len(titles))] + " details",
		Organization:  orgs[rng.Intn(len(orgs))],
		Location:      locs[rng.Intn(len(locs))],
		ProjectType:   types[rng.Intn(len(types))],
		ProjectValue:  float64(rng.Intn(10)) * 1_000_000,
		PublishedDate: &when,
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		a, b := randomLead(rng), randomLead(rng)
		assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-12, "iteration %d", i)
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	for i := 0; i < 50; i++ {
		a := randomLead(rng)
		assert.InDelta(t, 1.0, Similarity(a, a), 1e-12, "iteration %d: %+v", i, a)
	}
}

func TestSimilarity_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	for i := 0; i < 100; i++ {
		s := Similarity(randomLead(rng), randomLead(rng))
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestSimilarity_NearDuplicateScoresHigh(t *testing.T) {
	a := model.Lead{
		Title:        "County hospital expansion breaks ground",
		Description:  "The county approved a 120-bed expansion of the regional hospital.",
		Organization: "Mercy Health",
		Location:     "Springfield, MO",
		ProjectType:  "healthcare",
		ProjectValue: 45_000_000,
	}
	b := a
	b.Title = "County hospital expansion breaks ground this week"
	b.ProjectValue = 46_000_000 // within tolerance

	assert.Greater(t, Similarity(a, b), 0.9)
}

func TestSimilarity_UnrelatedScoresLow(t *testing.T) {
	a := model.Lead{
		Title:        "Highway interchange rebuild",
		Description:  "State DOT to rebuild the I-70 interchange.",
		Organization: "State DOT",
		Location:     "Topeka, KS",
		ProjectType:  "infrastructure",
		ProjectValue: 90_000_000,
	}
	b := model.Lead{
		Title:        "Boutique hotel renovation",
		Description:  "Historic downtown hotel to be renovated into 40 rooms.",
		Organization: "Harbor Hospitality",
		Location:     "Charleston, SC",
		ProjectType:  "commercial",
		ProjectValue: 8_000_000,
	}
	assert.Less(t, Similarity(a, b), 0.4)
}

func TestValueSimilarity_Tolerance(t *testing.T) {
	assert.Equal(t, 1.0, valueSimilarity(1_000_000, 1_050_000))
	assert.Equal(t, 0.0, valueSimilarity(1_000_000, 2_000_000))
	assert.Equal(t, 1.0, valueSimilarity(0, 0))
	assert.Equal(t, 0.0, valueSimilarity(0, 500_000))
}
