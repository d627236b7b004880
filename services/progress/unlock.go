package progress

import "learnhub/services/catalog"

// Unlock returns the set of sessions a student may open. sessions must be in
// course order. In a sequential course the first session is always open and
// every later one opens once its predecessor is completed; free-preview
// sessions and sessions already completed are always open. Non-sequential
// courses open everything.
func Unlock(sessions []catalog.SessionInfo, completed map[uint]bool, sequential bool) map[uint]bool {
	unlocked := make(map[uint]bool, len(sessions))
	for i, sess := range sessions {
		switch {
		case !sequential, i == 0, sess.IsFree, completed[sess.ID]:
			unlocked[sess.ID] = true
		case completed[sessions[i-1].ID]:
			unlocked[sess.ID] = true
		}
	}
	return unlocked
}

// Percentage is floor(completed / total * 100). An empty course is at 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return completed * 100 / total
}
