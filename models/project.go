package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectStatus is the publishing state of a project
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "DRAFT"
	ProjectStatusPublished ProjectStatus = "PUBLISHED"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known statuses
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPublished, ProjectStatusArchived:
		return true
	}
	return false
}

// Resource is an external link attached to a project (docs, articles, repos)
type Resource struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,http_url"`
}

// Project represents a portfolio entry with its linked technologies
type Project struct {
	ID           uint                          `json:"id" db:"id" gorm:"primaryKey"`
	Name         string                        `json:"name" db:"name" gorm:"type:text;not null"`
	Slug         string                        `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_project_slug"`
	Overview     string                        `json:"overview" db:"overview" gorm:"type:text;not null"`
	Description  *string                       `json:"description" db:"description" gorm:"type:text"`
	LiveDemo     *string                       `json:"liveDemo" db:"live_demo" gorm:"type:text"`
	GithubLink   *string                       `json:"githubLink" db:"github_link" gorm:"type:text"`
	Thumbnail    string                        `json:"thumbnail" db:"thumbnail" gorm:"type:text;not null"`
	Images       datatypes.JSONSlice[string]   `json:"images" db:"images"`
	Resources    datatypes.JSONSlice[Resource] `json:"resources" db:"resources"`
	Featured     bool                          `json:"featured" db:"featured" gorm:"not null;default:false"`
	Status       ProjectStatus                 `json:"status" db:"status" gorm:"type:text;not null;default:DRAFT"`
	StartDate    *time.Time                    `json:"startDate" db:"start_date"`
	EndDate      *time.Time                    `json:"endDate" db:"end_date"`
	CreatedAt    time.Time                     `json:"createdAt" db:"created_at" gorm:"index"`
	UpdatedAt    time.Time                     `json:"updatedAt" db:"updated_at"`
	Technologies []Technology                  `json:"technologies" gorm:"many2many:project_technologies;constraint:OnDelete:CASCADE"`
}

// TechnologyNames returns the names of the linked technologies in link order
func (p *Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		names = append(names, t.Name)
	}
	return names
}

// Clone returns a deep copy so callers can't mutate shared slices or pointers
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Description = cloneString(p.Description)
	c.LiveDemo = cloneString(p.LiveDemo)
	c.GithubLink = cloneString(p.GithubLink)
	c.StartDate = cloneTime(p.StartDate)
	c.EndDate = cloneTime(p.EndDate)
	c.Images = append(datatypes.JSONSlice[string]{}, p.Images...)
	c.Resources = append(datatypes.JSONSlice[Resource]{}, p.Resources...)
	c.Technologies = make([]Technology, len(p.Technologies))
	for i, t := range p.Technologies {
		c.Technologies[i] = *t.Clone()
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
