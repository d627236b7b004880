package enrollment

import courseModels "learnhub/models/course"

type Status = courseModels.EnrollmentStatus

// transitions lists every legal edge of the enrollment lifecycle. Terminal
// states have no entry.
var transitions = map[Status][]Status{
	courseModels.EnrollmentRequested: {
		courseModels.EnrollmentActive,
		courseModels.EnrollmentPaymentPending,
		courseModels.EnrollmentCancelled,
	},
	courseModels.EnrollmentPaymentPending: {
		courseModels.EnrollmentUnderReview,
		courseModels.EnrollmentActive,
		courseModels.EnrollmentRejected,
		courseModels.EnrollmentCancelled,
	},
	courseModels.EnrollmentUnderReview: {
		courseModels.EnrollmentActive,
		courseModels.EnrollmentRejected,
		courseModels.EnrollmentCancelled,
	},
	courseModels.EnrollmentActive: {
		courseModels.EnrollmentCompleted,
		courseModels.EnrollmentRefunded,
		courseModels.EnrollmentCancelled,
	},
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// releasesSeat reports whether entering the status frees the (student,
// course) pair for a new enrollment. Completed keeps the seat.
func releasesSeat(s Status) bool {
	switch s {
	case courseModels.EnrollmentRejected, courseModels.EnrollmentRefunded, courseModels.EnrollmentCancelled:
		return true
	}
	return false
}
