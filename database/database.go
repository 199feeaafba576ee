package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

// ProjectRepository persists projects together with their technology links.
// Implementations return gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey (or the driver's unique violation) for slug clashes.
type ProjectRepository interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type TechnologyRepository interface {
	FindAll(ctx context.Context) ([]*models.Technology, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Technology, error)
	Add(ctx context.Context, technology *models.Technology) error
	Delete(ctx context.Context, id uint) error
}

type ServiceRepository interface {
	FindAll(ctx context.Context) ([]*models.Service, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Add(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Database struct {
	projectRepo    ProjectRepository
	technologyRepo TechnologyRepository
	serviceRepo    ServiceRepository
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:    NewProjectRepo(db),
		technologyRepo: NewTechnologyRepo(db),
		serviceRepo:    NewServiceRepo(db),
	}
}

// NewInMemory builds a Database whose records live only for the lifetime of the process
func NewInMemory() Database {
	projects := NewMemProjectRepo()
	return Database{
		projectRepo:    projects,
		technologyRepo: NewMemTechnologyRepo(projects),
		serviceRepo:    NewMemServiceRepo(),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() ProjectRepository {
	return d.projectRepo
}

func (d Database) TechnologyRepo() TechnologyRepository {
	return d.technologyRepo
}

func (d Database) ServiceRepo() ServiceRepository {
	return d.serviceRepo
}
