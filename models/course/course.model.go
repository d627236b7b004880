package course

import "gorm.io/gorm"

// Course represents a learning course in the catalog
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Author       string  `json:"author"`
	Price        float64 `json:"price" gorm:"default:0"` // 0 means free
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`

	RequireSequentialProgress bool  `json:"require_sequential_progress" gorm:"default:true"`
	RequireFinalAssessment    bool  `json:"require_final_assessment" gorm:"default:false"`
	FinalAssessmentSessionID  *uint `json:"final_assessment_session_id"`

	IsDeleted bool `gorm:"default:false"`
}

// IsFree reports whether enrolling needs no payment review
func (c Course) IsFree() bool {
	return c.Price <= 0
}
