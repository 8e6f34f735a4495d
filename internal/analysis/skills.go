package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TopSkillsLimit caps the length of the ranked top skills list.
const TopSkillsLimit = 7

// SkillCount is one matched catalog term and its occurrence count.
type SkillCount struct {
	Skill string
	Count int
}

// SkillMatches maps matched skill terms to occurrence counts. Entries are kept in
// catalog order and every count is at least 1.
type SkillMatches struct {
	entries []SkillCount
}

// MatchSkills counts whole-word occurrences of every catalog term in lowerText.
// Terms that never occur are omitted.
func MatchSkills(catalog SkillCatalog, lowerText string) SkillMatches {
	var matches SkillMatches
	if lowerText == "" {
		return matches
	}
	for _, term := range catalog.terms {
		if n := countWholeWord(lowerText, term); n > 0 {
			matches.entries = append(matches.entries, SkillCount{Skill: term, Count: n})
		}
	}
	return matches
}

// NewSkillMatches builds a SkillMatches from explicit entries, dropping
// non-positive counts. Entries keep the given order.
func NewSkillMatches(entries ...SkillCount) SkillMatches {
	var m SkillMatches
	for _, e := range entries {
		if e.Count > 0 {
			m.entries = append(m.entries, e)
		}
	}
	return m
}

// Len returns the number of matched skills.
func (m SkillMatches) Len() int {
	return len(m.entries)
}

// IsEmpty reports whether no skill matched.
func (m SkillMatches) IsEmpty() bool {
	return len(m.entries) == 0
}

// Count returns the occurrence count for skill, or 0 if it did not match.
func (m SkillMatches) Count(skill string) int {
	for _, e := range m.entries {
		if e.Skill == skill {
			return e.Count
		}
	}
	return 0
}

// Skills returns matched skill names in catalog order.
func (m SkillMatches) Skills() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Skill
	}
	return out
}

// Entries returns a copy of the matched entries in catalog order.
func (m SkillMatches) Entries() []SkillCount {
	out := make([]SkillCount, len(m.entries))
	copy(out, m.entries)
	return out
}

// Map returns the matches as a plain map.
func (m SkillMatches) Map() map[string]int {
	out := make(map[string]int, len(m.entries))
	for _, e := range m.entries {
		out[e.Skill] = e.Count
	}
	return out
}

// MarshalJSON encodes the matches as a JSON object whose keys appear in catalog order.
func (m SkillMatches) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Skill)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of skill counts, preserving key order.
func (m *SkillMatches) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		m.entries = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("skill matches: expected JSON object")
	}

	var entries []SkillCount
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("skill matches: expected string key")
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("skill matches: count for %q: %w", key, err)
		}
		if count > 0 {
			entries = append(entries, SkillCount{Skill: key, Count: count})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	m.entries = entries
	return nil
}

// RankTopSkills orders matched skills by count descending and truncates to limit.
// Equal counts keep catalog order.
func RankTopSkills(matches SkillMatches, limit int) []string {
	ranked := matches.Entries()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make([]string, len(ranked))
	for i, e := range ranked {
		top[i] = e.Skill
	}
	return top
}
