package analysis

import (
	"fmt"
	"regexp"
	"strconv"
)

// ExperienceNotMentioned is reported when no year count could be detected.
const ExperienceNotMentioned = "Experience not clearly mentioned"

var yearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(years|yrs|year)`)

// ExperienceSummary is the result of experience extraction.
type ExperienceSummary struct {
	Years int
	Found bool
}

// ExtractExperience scans text for "<N> years", "<N>+ yrs" and similar claims and
// keeps the largest N. A largest value of 0 counts as not found.
func ExtractExperience(text string) ExperienceSummary {
	maxYears := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		years, ok := parseYears(m[1])
		if !ok {
			continue
		}
		if years > maxYears {
			maxYears = years
		}
	}
	if maxYears == 0 {
		return ExperienceSummary{}
	}
	return ExperienceSummary{Years: maxYears, Found: true}
}

func parseYears(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// String renders the summary as shown to users.
func (e ExperienceSummary) String() string {
	if !e.Found {
		return ExperienceNotMentioned
	}
	return fmt.Sprintf("%d years (detected)", e.Years)
}
