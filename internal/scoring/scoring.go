// Package scoring turns Likert answers into per-pole percentages and a
// four-letter type label.
//
// Percentages are rounded half up in integer arithmetic (counters are never
// negative, so this matches rounding half away from zero). After rounding,
// any drift from 100 is added to the strictly larger pole of the pair, or to
// the first pole on a tie. The first pole also wins a 50/50 label tie.
package scoring

import "mbti-quiz-service/internal/domain"

// Tally is the raw weighted count per pole before normalization.
type Tally map[domain.Pole]int

// Accumulate sums the signed weight of every answer whose statement is in
// statements. Answers for unknown statements are ignored.
func Accumulate(statements []domain.Statement, answers []domain.Answer) Tally {
	byID := make(map[int]domain.Statement, len(statements))
	for _, s := range statements {
		byID[s.ID] = s
	}

	tally := make(Tally, 8)
	for _, a := range answers {
		st, ok := byID[a.StatementID]
		if !ok {
			continue
		}
		signed := (a.Score - domain.NeutralScore) * st.Polarity
		first, second := st.Dimension.Poles()
		switch {
		case signed > 0:
			tally[first] += signed
		case signed < 0:
			tally[second] -= signed
		}
	}
	return tally
}

// Normalize converts a tally into complementary integer percentages.
func Normalize(tally Tally) domain.Scores {
	var scores domain.Scores
	for _, d := range domain.Dimensions {
		first, second := d.Poles()
		a, b := normalizePair(tally[first], tally[second])
		scores.SetPair(d, a, b)
	}
	return scores
}

func normalizePair(first, second int) (int, int) {
	total := first + second
	if total < 1 {
		total = 1
	}
	a := roundPercent(first, total)
	b := roundPercent(second, total)

	if diff := 100 - (a + b); diff != 0 {
		if b > a {
			b += diff
		} else {
			a += diff
		}
	}
	return a, b
}

// roundPercent computes round(count*100/total) with halves rounded up.
func roundPercent(count, total int) int {
	return (200*count + total) / (2 * total)
}

// Label picks the winning pole of each axis in fixed order.
func Label(scores domain.Scores) string {
	label := make([]byte, 0, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		first, second := d.Poles()
		a, b := scores.Pair(d)
		if a >= b {
			label = append(label, byte(first))
		} else {
			label = append(label, byte(second))
		}
	}
	return string(label)
}

// Compute runs the whole pipeline for one attempt.
func Compute(statements []domain.Statement, answers []domain.Answer) (domain.Scores, string) {
	scores := Normalize(Accumulate(statements, answers))
	return scores, Label(scores)
}
