package models

import "time"

// Technology is a label (React, Go, PostgreSQL...) that projects link to
type Technology struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_technology_name"`
	Icon      *string   `json:"icon" db:"icon" gorm:"type:text"`
	Category  *string   `json:"category" db:"category" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Projects []Project `json:"-" gorm:"many2many:project_technologies;constraint:OnDelete:CASCADE"`
}

func (t *Technology) Clone() *Technology {
	c := *t
	c.Icon = cloneString(t.Icon)
	c.Category = cloneString(t.Category)
	c.Projects = nil
	return &c
}
