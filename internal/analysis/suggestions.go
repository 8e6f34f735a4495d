package analysis

import "strings"

// Suggestion clauses, emitted in this order.
const (
	suggestAddSkills     = "Add a technical skills section: Java, Spring Boot, SQL, etc."
	suggestHighlightPref = "Highlight top skills: "
	suggestYears         = "Mention total years of experience with dates."
	suggestTailor        = "Tailor your resume to match job description keywords."
)

// BuildSuggestions produces improvement advice from the matched skills and the
// experience summary. The tailoring clause is always last.
func BuildSuggestions(matches SkillMatches, exp ExperienceSummary) string {
	clauses := make([]string, 0, 3)

	if matches.IsEmpty() {
		clauses = append(clauses, suggestAddSkills)
	} else {
		clauses = append(clauses, suggestHighlightPref+strings.Join(matches.Skills(), ", ")+".")
	}

	if !exp.Found {
		clauses = append(clauses, suggestYears)
	}

	clauses = append(clauses, suggestTailor)
	return strings.Join(clauses, " ")
}
