package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionProgress tracks one student's state on one session
type SessionProgress struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_progress_user_session;not null"`
	SessionID uint `json:"session_id" gorm:"uniqueIndex:idx_progress_user_session;not null"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`

	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`

	WatchedPercentage int            `json:"watched_percentage" gorm:"default:0"`
	WatchedSegments   datatypes.JSON `json:"-"` // merged [from,to] second ranges credited by the server
	LastHeartbeatAt   *time.Time     `json:"last_heartbeat_at"`

	AttemptScore *int `json:"attempt_score"`
	Version      int  `json:"version" gorm:"not null;default:1"`
}

func (SessionProgress) TableName() string {
	return "session_progresses"
}

// QuizAttempt represents a student's attempt at a quiz or assignment session
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"uniqueIndex:idx_attempt_number;not null"`
	SessionID     uint           `json:"session_id" gorm:"uniqueIndex:idx_attempt_number;not null"`
	AttemptNumber int            `json:"attempt_number" gorm:"uniqueIndex:idx_attempt_number;not null"`
	CourseID      uint           `json:"course_id" gorm:"index;not null"`
	Answers       datatypes.JSON `json:"answers"` // question id -> selected option ids
	Score         int            `json:"score"`   // 0-100
	Passed        bool           `json:"passed" gorm:"default:false"`
	SubmittedAt   time.Time      `json:"submitted_at"`
}
