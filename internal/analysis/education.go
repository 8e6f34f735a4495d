package analysis

import "strings"

// Education levels reported by ExtractEducation.
const (
	EducationPhD       = "PhD"
	EducationMasters   = "Master's"
	EducationBachelors = "Bachelor's"
	EducationNone      = ""
)

type educationTier struct {
	level string
	// substrings match anywhere; words must sit on word boundaries
	substrings []string
	words      []string
}

// educationTiers are checked in order; the first tier with any hit wins.
var educationTiers = []educationTier{
	{level: EducationPhD, substrings: []string{"phd", "doctor"}},
	{level: EducationMasters, substrings: []string{"master", "m.tech", "m.sc"}},
	{level: EducationBachelors, substrings: []string{"bachelor", "b.tech", "bsc"}, words: []string{"be"}},
}

// ExtractEducation returns the highest education level mentioned in text, or
// EducationNone. Lower tiers are never checked once a higher tier matches.
func ExtractEducation(text string) string {
	lower := Normalize(text)
	for _, tier := range educationTiers {
		if tier.matches(lower) {
			return tier.level
		}
	}
	return EducationNone
}

func (t educationTier) matches(lower string) bool {
	for _, s := range t.substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	for _, w := range t.words {
		if containsWholeWord(lower, w) {
			return true
		}
	}
	return false
}
