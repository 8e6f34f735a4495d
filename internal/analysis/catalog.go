// Package analysis scores a resume's plain text against an optional job description.
//
// The engine is a pipeline of small deterministic stages (skill matching, experience
// and education extraction, score composition, suggestions) that share one immutable
// SkillCatalog. Every stage is a pure function of its inputs, so a single Analyzer can
// serve concurrent callers without locking.
package analysis

import "strings"

// defaultSkillTerms is the built-in catalog. Order is significant: it is the
// tie-break priority for top skill ranking.
var defaultSkillTerms = []string{
	"java", "spring", "spring boot", "hibernate", "jpa", "sql", "mysql", "oracle",
	"rest", "api", "microservices", "docker", "kubernetes", "react", "javascript",
	"html", "css", "aws", "git", "maven", "gradle", "junit", "mockito", "postgresql",
}

// SkillCatalog is an ordered, read-only set of lowercase skill terms.
// The zero value is an empty catalog.
type SkillCatalog struct {
	terms []string
	index map[string]int
}

// NewSkillCatalog builds a catalog from terms. Terms are trimmed and lowercased;
// blanks are dropped and duplicates keep their first position.
func NewSkillCatalog(terms ...string) SkillCatalog {
	c := SkillCatalog{
		terms: make([]string, 0, len(terms)),
		index: make(map[string]int, len(terms)),
	}
	for _, term := range terms {
		normalized := strings.ToLower(strings.TrimSpace(term))
		if normalized == "" {
			continue
		}
		if _, exists := c.index[normalized]; exists {
			continue
		}
		c.index[normalized] = len(c.terms)
		c.terms = append(c.terms, normalized)
	}
	return c
}

// DefaultSkillCatalog returns the built-in catalog of 24 backend and web skills.
func DefaultSkillCatalog() SkillCatalog {
	return NewSkillCatalog(defaultSkillTerms...)
}

// Terms returns a copy of the catalog terms in catalog order.
func (c SkillCatalog) Terms() []string {
	out := make([]string, len(c.terms))
	copy(out, c.terms)
	return out
}

// Len returns the number of terms.
func (c SkillCatalog) Len() int {
	return len(c.terms)
}

// Index returns the catalog position of term, or -1 if it is not in the catalog.
func (c SkillCatalog) Index(term string) int {
	if i, ok := c.index[term]; ok {
		return i
	}
	return -1
}

// Contains reports whether term is in the catalog.
func (c SkillCatalog) Contains(term string) bool {
	return c.Index(term) >= 0
}
