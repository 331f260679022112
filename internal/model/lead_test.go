package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustConfidence_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"within range", 0.5, 0.2, 0.7},
		{"clamped high", 0.9, 0.5, 1.0},
		{"clamped low", 0.1, -0.5, 0.0},
		{"exact bound", 0.5, 0.5, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lead{ConfidenceScore: tt.start}
			l.AdjustConfidence(tt.delta)
			assert.InDelta(t, tt.want, l.ConfidenceScore, 1e-9)
		})
	}
}

func TestNewLead_Defaults(t *testing.T) {
	l := NewLead("Hospital expansion", "New wing for county hospital")
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, DefaultConfidence, l.ConfidenceScore)
}

func TestEnsureID(t *testing.T) {
	l := Lead{Title: "x"}
	l.EnsureID()
	assert.NotEmpty(t, l.ID)

	fixed := Lead{ID: "lead-1"}
	fixed.EnsureID()
	assert.Equal(t, "lead-1", fixed.ID)
}

func TestParseSector(t *testing.T) {
	tests := []struct {
		in   string
		want MarketSector
		ok   bool
	}{
		{"commercial", SectorCommercial, true},
		{"  Residential ", SectorResidential, true},
		{"MIXED USE", SectorMixedUse, true},
		{"mixed-use", SectorMixedUse, true},
		{"underwater basket weaving", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSector(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
