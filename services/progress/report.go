package progress

import (
	"context"
	courseModels "learnhub/models/course"
	"learnhub/services/catalog"
)

// SessionState is a session as one student sees it.
type SessionState struct {
	catalog.SessionInfo
	Unlocked          bool `json:"unlocked"`
	Completed         bool `json:"completed"`
	WatchedPercentage int  `json:"watched_percentage"`
	AttemptScore      *int `json:"attempt_score,omitempty"`
}

type ModuleReport struct {
	ModuleID          uint   `json:"module_id"`
	Title             string `json:"title"`
	CompletedSessions int    `json:"completed_sessions"`
	TotalSessions     int    `json:"total_sessions"`
	Completed         bool   `json:"completed"`
}

type Report struct {
	CourseID          uint                          `json:"course_id"`
	EnrollmentID      uint                          `json:"enrollment_id"`
	EnrollmentStatus  courseModels.EnrollmentStatus `json:"enrollment_status"`
	Percentage        int                           `json:"percentage"`
	CompletedSessions int                           `json:"completed_sessions"`
	TotalSessions     int                           `json:"total_sessions"`
	NextSessionID     *uint                         `json:"next_session_id,omitempty"`
	Modules           []ModuleReport                `json:"modules"`
	Sessions          []SessionState                `json:"sessions"`
}

// ComputeProgress returns the student's completion percentage of the course.
func (s *Service) ComputeProgress(ctx context.Context, studentID, courseID uint) (int, error) {
	v, err := s.load(ctx, studentID, courseID)
	if err != nil {
		return 0, err
	}
	return v.percentage(), nil
}

// GetUnlockedSessions lists every session of the course in order with its
// lock state for the student.
func (s *Service) GetUnlockedSessions(ctx context.Context, studentID, courseID uint) ([]SessionState, error) {
	v, err := s.load(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return v.states(), nil
}

func (v *courseView) states() []SessionState {
	states := make([]SessionState, 0, len(v.sessions))
	for _, sess := range v.sessions {
		st := SessionState{
			SessionInfo: sess,
			Unlocked:    v.unlocked[sess.ID],
			Completed:   v.completed[sess.ID],
		}
		if p, ok := v.records[sess.ID]; ok {
			st.WatchedPercentage = p.WatchedPercentage
			st.AttemptScore = p.AttemptScore
		}
		states = append(states, st)
	}
	return states
}

func (s *Service) GetProgressReport(ctx context.Context, studentID, courseID uint) (*Report, error) {
	v, err := s.load(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		CourseID:          courseID,
		EnrollmentID:      v.enrollment.ID,
		EnrollmentStatus:  v.enrollment.Status,
		Percentage:        v.percentage(),
		CompletedSessions: v.completedCount(),
		TotalSessions:     len(v.sessions),
		Sessions:          v.states(),
	}
	for _, m := range v.structure.Modules {
		mr := ModuleReport{ModuleID: m.ID, Title: m.Title, TotalSessions: len(m.Sessions)}
		for _, sess := range m.Sessions {
			if v.completed[sess.ID] {
				mr.CompletedSessions++
			}
		}
		mr.Completed = mr.TotalSessions > 0 && mr.CompletedSessions == mr.TotalSessions
		report.Modules = append(report.Modules, mr)
	}
	for _, st := range report.Sessions {
		if st.Unlocked && !st.Completed {
			id := st.ID
			report.NextSessionID = &id
			break
		}
	}
	return report, nil
}
