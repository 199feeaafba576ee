package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceIcons is the icon catalog the landing page knows how to render
var ServiceIcons = []string{
	"Code",
	"Server",
	"Database",
	"Cloud",
	"Smartphone",
	"Palette",
	"Layout",
	"Globe",
	"Shield",
	"Cpu",
	"Terminal",
	"GitBranch",
	"Rocket",
	"Wrench",
	"LineChart",
	"MessageSquare",
}

// IsServiceIcon reports whether name is part of ServiceIcons
func IsServiceIcon(name string) bool {
	for _, icon := range ServiceIcons {
		if icon == name {
			return true
		}
	}
	return false
}

// Service is an offering shown in the services section of the site
type Service struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title            string    `json:"title" db:"title" gorm:"type:text;not null"`
	ShortDescription string    `json:"shortDescription" db:"short_description" gorm:"type:text;not null"`
	LongDescription  string    `json:"longDescription" db:"long_description" gorm:"type:text;not null"`
	Icon             string    `json:"icon" db:"icon" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at" gorm:"index"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
