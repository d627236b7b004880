package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage    string     `gorm:"default:''"`
	Name            string     `gorm:"default:''"`
	Email           string     `gorm:"unique;not null"`
	Mobile          string     `gorm:"default:''"`
	Role            string     `gorm:"default:'STUDENT'"` // STUDENT, ADMIN
	Password        string     `gorm:"not null" json:"-"`
	LastLogin       *time.Time `json:"last_login"`
	IsEmailVerified bool       `gorm:"default:false"`
	IsBlocked       bool       `gorm:"default:false"`
	IsDeleted       bool       `gorm:"default:false"`
}
