// Package validate runs independent evidence checks over a lead and
// composes them into a single accept/reject decision plus a confidence
// delta.
package validate

// Level is the severity of a validation result.
type Level string

const (
	// LevelStandard failures are suspect but can be outweighed.
	LevelStandard Level = "standard"
	// LevelCritical failures invalidate the merged result permanently.
	LevelCritical Level = "critical"
)

// Result is the outcome of one validation check and the unit of
// composition. The zero value is not useful; use NewResult.
type Result struct {
	IsValid              bool     `json:"is_valid"`
	Messages             []string `json:"messages,omitempty"`
	ConfidenceAdjustment float64  `json:"confidence_adjustment"`
	NormalizedData       any      `json:"normalized_data,omitempty"`
	Level                Level    `json:"level"`

	// criticalFailed is sticky: once a CRITICAL-level invalid result has
	// entered a merge chain, no later merge can restore validity.
	criticalFailed bool
}

// NewResult returns a trivially-valid STANDARD result, the seed for a
// merge fold.
func NewResult() *Result {
	return &Result{IsValid: true, Level: LevelStandard}
}

// Invalid returns an invalid result at the given level with one message
// and a confidence adjustment.
func Invalid(level Level, adjustment float64, message string) *Result {
	r := &Result{
		IsValid:              false,
		Level:                level,
		ConfidenceAdjustment: adjustment,
		Messages:             []string{message},
	}
	if level == LevelCritical {
		r.criticalFailed = true
	}
	return r
}

// Valid returns a valid result with a confidence adjustment and an
// optional message.
func Valid(adjustment float64, messages ...string) *Result {
	return &Result{
		IsValid:              true,
		Level:                LevelStandard,
		ConfidenceAdjustment: adjustment,
		Messages:             messages,
	}
}

// AddMessage appends a finding to the result.
func (r *Result) AddMessage(msg string) {
	r.Messages = append(r.Messages, msg)
}

// Merge folds other into r and returns r. Messages concatenate in
// argument order, adjustments sum, and validity is the AND of both —
// except that CRITICAL invalidity is sticky: once merged in, the result
// stays invalid no matter what is merged afterward.
func (r *Result) Merge(other *Result) *Result {
	if other == nil {
		return r
	}

	r.Messages = append(r.Messages, other.Messages...)
	r.ConfidenceAdjustment += other.ConfidenceAdjustment
	if other.NormalizedData != nil {
		r.NormalizedData = other.NormalizedData
	}

	if other.criticalFailed || (!other.IsValid && other.Level == LevelCritical) {
		r.criticalFailed = true
	}

	r.IsValid = r.IsValid && other.IsValid
	if r.criticalFailed {
		r.IsValid = false
		r.Level = LevelCritical
	}

	return r
}
