package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Preload("Technologies").
		Order("created_at DESC").
		Order("id DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Technologies").First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns a project by its slug
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Technologies").Where("slug = ?", slug).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project and links the (already existing) technologies.
// Technology rows themselves are never written.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Technologies.*").Create(project).Error
}

// Update saves every column of the project, then replaces its technology links.
// The two statements are not wrapped in a transaction.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	db := r.db.WithContext(ctx)
	technologies := project.Technologies
	if err := db.Omit("Technologies").Save(project).Error; err != nil {
		return err
	}
	if err := db.Model(project).Association("Technologies").Replace(technologies); err != nil {
		return err
	}
	project.Technologies = technologies
	return nil
}

// Delete removes a project and its join rows by id
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Technologies").Delete(&models.Project{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
