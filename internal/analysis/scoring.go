package analysis

import (
	"math"
	"strings"
)

// Score weights and sub-score constants.
const (
	SkillWeight      = 0.6
	ExperienceWeight = 0.3
	EducationWeight  = 0.1

	baseExperienceScore   = 30.0
	maxExperienceScore    = 70.0
	pointsPerYear         = 5.0
	educationPresentScore = 10.0
	maxMatchScore         = 100.0
)

// ScoreBreakdown holds the three sub-scores and the combined match score.
type ScoreBreakdown struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Final      float64 `json:"final"`
}

// SkillScore returns the share (0-100) of catalog terms named in the job description
// that also appear in the resume. Both checks are plain substring checks.
// A job description naming no catalog terms scores 0.
func SkillScore(catalog SkillCatalog, jobDescription, lowerResume string) float64 {
	jd := Normalize(jobDescription)
	total := 0
	matched := 0
	for _, term := range catalog.terms {
		if !strings.Contains(jd, term) {
			continue
		}
		total++
		if strings.Contains(lowerResume, term) {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

// ExperienceScore returns 30 when experience is unknown, otherwise 30 + 5 per year
// capped at 70.
func ExperienceScore(exp ExperienceSummary) float64 {
	if !exp.Found {
		return baseExperienceScore
	}
	return math.Min(maxExperienceScore, baseExperienceScore+float64(exp.Years)*pointsPerYear)
}

// EducationScore returns 10 when any education level was detected.
func EducationScore(education string) float64 {
	if education == EducationNone {
		return 0
	}
	return educationPresentScore
}

// ComposeScore blends the sub-scores into a match score in [0, 100] rounded to
// two decimals.
func ComposeScore(skill, experience, education float64) ScoreBreakdown {
	final := skill*SkillWeight + experience*ExperienceWeight + education*EducationWeight
	final = math.Max(0, math.Min(maxMatchScore, final))
	return ScoreBreakdown{
		Skill:      skill,
		Experience: experience,
		Education:  education,
		Final:      RoundScore(final),
	}
}

// RoundScore rounds half-up to two decimal places.
func RoundScore(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
