package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// FindAll returns all technologies ordered by name
func (r *TechnologyRepo) FindAll(ctx context.Context) ([]*models.Technology, error) {
	var technologies []*models.Technology
	err := r.db.WithContext(ctx).Order("name ASC").Find(&technologies).Error
	return technologies, err
}

// FindByIDs returns the technologies matching ids; unknown ids are simply absent from the result
func (r *TechnologyRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Technology, error) {
	var technologies []models.Technology
	if len(ids) == 0 {
		return technologies, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&technologies).Error
	return technologies, err
}

// Add inserts a new technology into the database
func (r *TechnologyRepo) Add(ctx context.Context, technology *models.Technology) error {
	return r.db.WithContext(ctx).Create(technology).Error
}

// Delete disconnects the technology from every project, then removes it
func (r *TechnologyRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Projects").Delete(&models.Technology{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
