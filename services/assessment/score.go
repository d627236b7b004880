package assessment

import "learnhub/services/catalog"

// Score grades answers (question id -> selected option ids) against the key
// on a 0-100 scale weighted by question points. A question earns its points
// only when the selection equals the correct option set exactly.
func Score(key *catalog.AnswerKey, answers map[uint][]uint) int {
	total, earned := 0, 0
	for _, q := range key.Questions {
		total += q.Points
		if sameSet(answers[q.ID], q.CorrectOptions) {
			earned += q.Points
		}
	}
	if total <= 0 {
		return 0
	}
	return earned * 100 / total
}

func sameSet(selected, correct []uint) bool {
	want := make(map[uint]bool, len(correct))
	for _, id := range correct {
		want[id] = true
	}
	got := make(map[uint]bool, len(selected))
	for _, id := range selected {
		if !want[id] {
			return false
		}
		got[id] = true
	}
	return len(got) == len(want)
}
