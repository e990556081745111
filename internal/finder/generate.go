package finder

import (
	"regexp"
	"sort"
	"strings"

	dErrors "github.com/adverot/emailfinder/pkg/domain-errors"
	pstrings "github.com/adverot/emailfinder/pkg/platform/strings"
)

// domainShape is deliberately permissive: at least one dot with non-empty
// text after it. Stricter RFC validation would reject domains real mail
// servers happily answer for.
var domainShape = regexp.MustCompile(`.\..+$`)

// joinSeparators lists the forms a (left, right) pair is joined with, paired
// with the score each form adds. Dot and bare concatenation are the common
// corporate conventions, hyphen and underscore progressively less so.
var joinSeparators = []struct {
	sep   string
	score int
}{
	{".", 0},
	{"", 0},
	{"-", 1},
	{"_", 2},
}

// orderPenalty is added to every reversed (last-name-first) pair.
const orderPenalty = 1

// fullVariations derives the full-name forms of a name: all parts
// concatenated, plus the hyphen-joined form for compound names.
func fullVariations(parts NameParts) []string {
	vars := []string{strings.Join(parts, "")}
	if len(parts) > 1 {
		vars = append(vars, strings.Join(parts, "-"))
	}
	return pstrings.DedupeAndTrim(vars)
}

// initialVariations derives the initials-based forms: initials concatenated,
// plus hyphen-joined and dot-joined initials for compound names, plus the
// lone leading initial.
func initialVariations(parts NameParts) []string {
	initials := make([]string, len(parts))
	for i, part := range parts {
		initials[i] = string([]rune(part)[:1])
	}

	vars := []string{strings.Join(initials, "")}
	if len(parts) > 1 {
		vars = append(vars, strings.Join(initials, "-"), strings.Join(initials, "."))
	}
	vars = append(vars, initials[0])
	return pstrings.DedupeAndTrim(vars)
}

// scoreRule enumerates every (left, right) variant pair at a base score.
// Rules are data, not code: the generator evaluates them uniformly, in both
// name orders and across all join separators.
type scoreRule struct {
	left  []string
	right []string
	base  int
}

// scoringRules builds the rule table for one (first, last) name pair, from
// most to least plausible convention.
func scoringRules(first, last NameParts) []scoreRule {
	firstFull := fullVariations(first)
	lastFull := fullVariations(last)
	firstInitials := initialVariations(first)
	lastInitials := initialVariations(last)
	lone := first.Initial()

	// Split the first-name initial forms: joined forms like "j-c" or "j.c"
	// are rare in practice and score far worse than plain ones like "jp".
	var plain, joined []string
	for _, v := range firstInitials {
		switch {
		case strings.ContainsAny(v, "-."):
			joined = append(joined, v)
		case v != lone:
			plain = append(plain, v)
		}
	}

	return []scoreRule{
		{left: firstFull, right: lastFull, base: 0},
		{left: []string{lone}, right: lastFull, base: 0},
		{left: plain, right: lastFull, base: 1},
		{left: firstFull, right: lastInitials, base: 2},
		{left: firstInitials, right: lastInitials, base: 2},
		{left: joined, right: lastFull, base: 4},
	}
}

// scoreboard accumulates local-parts with insert-or-update-if-lower
// semantics while preserving first-insertion order for the stable tie-break.
type scoreboard struct {
	order  []string
	scores map[string]int
}

func newScoreboard() *scoreboard {
	return &scoreboard{scores: make(map[string]int)}
}

func (b *scoreboard) add(local string, score int) {
	if prev, ok := b.scores[local]; ok {
		if score < prev {
			b.scores[local] = score
		}
		return
	}
	b.scores[local] = score
	b.order = append(b.order, local)
}

// GenerateCandidates expands normalized name parts into the deduplicated,
// scored candidate addresses for domain, sorted ascending by score with
// accumulation order as the tie-break. The result is a pure function of its
// inputs. Returns ErrInvalidDomain (wrapped with CodeValidation) when the
// domain fails the label.label shape.
func GenerateCandidates(first, last NameParts, domain string) ([]Candidate, error) {
	if !domainShape.MatchString(domain) {
		return nil, dErrors.Wrap(ErrInvalidDomain, dErrors.CodeValidation, "domain must contain a dot followed by a label")
	}

	board := newScoreboard()
	for _, rule := range scoringRules(first, last) {
		for _, l := range rule.left {
			for _, r := range rule.right {
				for _, join := range joinSeparators {
					board.add(l+join.sep+r, rule.base+join.score)
					board.add(r+join.sep+l, rule.base+orderPenalty+join.score)
				}
			}
		}
	}

	candidates := make([]Candidate, 0, len(board.order))
	for _, local := range board.order {
		candidates = append(candidates, Candidate{
			Email: local + "@" + domain,
			Score: board.scores[local],
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	return candidates, nil
}
