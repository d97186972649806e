package search

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"miniatlas/internal/domain"
)

// MatchClass is the priority bucket of a search hit; lower ranks first
type MatchClass int

const (
	NamePrefix MatchClass = iota
	WordPrefix
	CodePrefix
	CapitalPrefix
	AllTokens
)

func (c MatchClass) String() string {
	switch c {
	case NamePrefix:
		return "name-prefix"
	case WordPrefix:
		return "word-prefix"
	case CodePrefix:
		return "code-prefix"
	case CapitalPrefix:
		return "capital-prefix"
	case AllTokens:
		return "all-tokens"
	default:
		return "unknown"
	}
}

// Match is a ranked record together with the class it matched
type Match struct {
	Country domain.Country
	Class   MatchClass
}

// Ranker orders countries against a free-text query. Names are compared
// with the collation rules of its language.
type Ranker struct {
	tag language.Tag
}

// NewRanker creates a ranker collating names for the given BCP 47 tag.
// An unparsable tag falls back to English.
func NewRanker(lang string) *Ranker {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Ranker{tag: tag}
}

var english = &Ranker{tag: language.English}

// Rank ranks records with English collation
func Rank(records []domain.Country, query string) []domain.Country {
	return english.Rank(records, query)
}

// Rank returns the records matching query, best first. A blank query
// matches nothing.
func (r *Ranker) Rank(records []domain.Country, query string) []domain.Country {
	matches := r.Matches(records, query)
	out := make([]domain.Country, len(matches))
	for i, m := range matches {
		out[i] = m.Country
	}
	return out
}

// Matches is Rank with the match class of every hit
func (r *Ranker) Matches(records []domain.Country, query string) []Match {
	q := normalizeQuery(query)
	if q == "" {
		return []Match{}
	}
	tokens := strings.Fields(q)

	matches := make([]Match, 0)
	for _, rec := range records {
		if class, ok := classify(rec, q, tokens); ok {
			matches = append(matches, Match{Country: rec, Class: class})
		}
	}

	// collate.Collator keeps scratch buffers and is not safe to share
	col := collate.New(r.tag)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if c := col.CompareString(a.Country.Name, b.Country.Name); c != 0 {
			return c < 0
		}
		return a.Country.Code < b.Country.Code
	})
	return matches
}

// Classify reports the match class of a single record, or false when the
// record does not match query at all
func Classify(record domain.Country, query string) (MatchClass, bool) {
	q := normalizeQuery(query)
	if q == "" {
		return 0, false
	}
	return classify(record, q, strings.Fields(q))
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func classify(rec domain.Country, q string, tokens []string) (MatchClass, bool) {
	name := strings.ToLower(rec.Name)

	if strings.HasPrefix(name, q) {
		return NamePrefix, true
	}
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, q) {
			return WordPrefix, true
		}
	}
	if strings.HasPrefix(strings.ToLower(rec.Code), q) {
		return CodePrefix, true
	}
	if rec.Capital != "" && strings.HasPrefix(strings.ToLower(rec.Capital), q) {
		return CapitalPrefix, true
	}
	for _, tok := range tokens {
		if !strings.Contains(name, tok) {
			return 0, false
		}
	}
	return AllTokens, true
}
