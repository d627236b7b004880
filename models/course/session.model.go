package course

import "gorm.io/gorm"

// SessionType is the kind of content a session delivers
type SessionType string

const (
	SessionTypeVideo      SessionType = "VIDEO"
	SessionTypeLive       SessionType = "LIVE"
	SessionTypeRecorded   SessionType = "RECORDED"
	SessionTypeArticle    SessionType = "ARTICLE"
	SessionTypePDF        SessionType = "PDF"
	SessionTypeQuiz       SessionType = "QUIZ"
	SessionTypeAssignment SessionType = "ASSIGNMENT"
)

// Valid reports whether t is one of the known session types
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeVideo, SessionTypeLive, SessionTypeRecorded,
		SessionTypeArticle, SessionTypePDF,
		SessionTypeQuiz, SessionTypeAssignment:
		return true
	}
	return false
}

// IsWatchable sessions complete on measured watch time
func (t SessionType) IsWatchable() bool {
	return t == SessionTypeVideo || t == SessionTypeLive || t == SessionTypeRecorded
}

// IsReadable sessions complete on explicit acknowledgment
func (t SessionType) IsReadable() bool {
	return t == SessionTypeArticle || t == SessionTypePDF
}

// IsAssessed sessions complete on a passing attempt
func (t SessionType) IsAssessed() bool {
	return t == SessionTypeQuiz || t == SessionTypeAssignment
}

// Session is a single piece of content inside a module
type Session struct {
	gorm.Model
	CourseID    uint        `json:"course_id" gorm:"index;not null"`
	ModuleID    uint        `json:"module_id" gorm:"index;not null"`
	Title       string      `json:"title"`
	SessionType SessionType `json:"session_type" gorm:"type:varchar(20);not null"`
	ContentURL  string      `json:"content_url"`
	OrderIndex  int         `json:"order_index" gorm:"default:0"` // Order within module

	DurationSeconds         int  `json:"duration_seconds" gorm:"default:0"`
	RequiredWatchPercentage int  `json:"required_watch_percentage" gorm:"default:0"` // 0 uses the configured default
	PassingScore            int  `json:"passing_score" gorm:"default:0"`             // 0 uses the configured default
	IsFree                  bool `json:"is_free" gorm:"default:false"`              // free preview, bypasses sequential lock

	IsDeleted bool `gorm:"default:false"`
}

// QuizQuestion is one question of a quiz or assignment session
type QuizQuestion struct {
	gorm.Model
	SessionID  uint   `json:"session_id" gorm:"index;not null"`
	Prompt     string `json:"prompt"`
	Points     int    `json:"points" gorm:"default:1"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`

	Options []QuizOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// QuizOption represents an option for a quiz question
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"-" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
