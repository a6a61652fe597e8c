package domain

import (
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactName     = 100.0
	ScorePrefixName    = 75.0
	ScoreSubstringName = 50.0
	ScoreLocation      = 40.0

	// Rating tiebreaker weight (rating is 0..5, keeps it below one match tier)
	ScoreRatingWeight = 2.0
)

// Query represents a parsed visitor search input
type Query struct {
	Raw       string   // Original input
	Fragments []string // Lowercased space-separated fragments
}

// IsEmpty reports whether the query carries no usable fragments.
func (q *Query) IsEmpty() bool {
	return q == nil || len(q.Fragments) == 0
}

// ParseQuery parses visitor input into a structured query.
// Examples:
//   - "luxor" -> ["luxor"]
//   - "  Valley of Kings " -> ["valley", "of", "kings"]
func ParseQuery(input string) *Query {
	input = strings.TrimSpace(strings.ToLower(input))
	q := &Query{Raw: input}
	if input == "" {
		return q
	}
	for _, part := range strings.Fields(input) {
		q.Fragments = append(q.Fragments, part)
	}
	return q
}

// Match represents a destination with its search score
type Match struct {
	Destination *Destination
	Score       float64
}

// Score calculates the match score for a destination against a query.
// Every fragment must hit either the name or the location; a single miss
// disqualifies the destination. Returns 0 for no match.
func Score(query *Query, dest *Destination) float64 {
	if query.IsEmpty() || dest == nil {
		return 0.0
	}

	name := strings.ToLower(dest.Name)
	location := strings.ToLower(dest.Location)

	var total float64
	for _, frag := range query.Fragments {
		score := scoreFragment(frag, name, location)
		if score == 0 {
			return 0.0
		}
		total += score
	}

	// Ratings only break ties between equally good textual matches.
	total += dest.Rating * ScoreRatingWeight

	return total
}

// scoreFragment scores one query fragment against name and location.
// The best of the two fields wins.
func scoreFragment(frag, name, location string) float64 {
	var best float64

	switch {
	case frag == name:
		best = ScoreExactName
	case strings.HasPrefix(name, frag):
		best = ScorePrefixName
	case strings.Contains(name, frag):
		best = ScoreSubstringName
	}

	if strings.Contains(location, frag) && best < ScoreLocation {
		best = ScoreLocation
	}

	return best
}

// Search filters and ranks destinations against the raw query input.
// An empty query returns all destinations in catalog order.
func Search(input string, dests []*Destination) []*Destination {
	query := ParseQuery(input)
	if query.IsEmpty() {
		return dests
	}

	matches := make([]Match, 0, len(dests))
	for _, dest := range dests {
		if score := Score(query, dest); score > 0 {
			matches = append(matches, Match{Destination: dest, Score: score})
		}
	}

	// Stable sort keeps catalog order for identical scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	result := make([]*Destination, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.Destination)
	}
	return result
}
