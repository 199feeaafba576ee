package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

// The in-memory repositories keep records for the lifetime of the process only.
// Every read returns copies and every write stores a copy, so no caller ever
// holds a reference into the shared collection. Slug and name uniqueness is
// checked under the same lock as the insert.

type MemProjectRepo struct {
	mu       sync.RWMutex
	projects []*models.Project
	nextID   uint
	now      func() time.Time
}

func NewMemProjectRepo() *MemProjectRepo {
	return &MemProjectRepo{nextID: 1, now: time.Now}
}

// FindAll returns all projects in insertion order
func (r *MemProjectRepo) FindAll(_ context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p.Clone())
	}
	return projects, nil
}

func (r *MemProjectRepo) FindByID(_ context.Context, id uint) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.projects[i].Clone(), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemProjectRepo) FindBySlug(_ context.Context, slug string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.Slug == slug {
			return p.Clone(), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemProjectRepo) Add(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(project.Slug, 0) {
		return gorm.ErrDuplicatedKey
	}

	now := r.now()
	project.ID = r.nextID
	project.CreatedAt = now
	project.UpdatedAt = now
	r.nextID++
	r.projects = append(r.projects, project.Clone())
	return nil
}

// Update replaces the stored project; CreatedAt is kept from the stored copy
func (r *MemProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(project.ID)
	if i < 0 {
		return gorm.ErrRecordNotFound
	}
	if r.slugTaken(project.Slug, project.ID) {
		return gorm.ErrDuplicatedKey
	}

	project.CreatedAt = r.projects[i].CreatedAt
	project.UpdatedAt = r.now()
	r.projects[i] = project.Clone()
	return nil
}

func (r *MemProjectRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return gorm.ErrRecordNotFound
	}
	r.projects = append(r.projects[:i], r.projects[i+1:]...)
	return nil
}

// disconnectTechnology drops a technology link from every project
func (r *MemProjectRepo) disconnectTechnology(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.projects {
		kept := p.Technologies[:0]
		for _, t := range p.Technologies {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		p.Technologies = kept
	}
}

func (r *MemProjectRepo) indexOf(id uint) int {
	for i, p := range r.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *MemProjectRepo) slugTaken(slug string, exceptID uint) bool {
	for _, p := range r.projects {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	return false
}

type MemTechnologyRepo struct {
	mu           sync.RWMutex
	technologies []*models.Technology
	nextID       uint
	projects     *MemProjectRepo
	now          func() time.Time
}

func NewMemTechnologyRepo(projects *MemProjectRepo) *MemTechnologyRepo {
	return &MemTechnologyRepo{nextID: 1, projects: projects, now: time.Now}
}

// FindAll returns all technologies ordered by name
func (r *MemTechnologyRepo) FindAll(_ context.Context) ([]*models.Technology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	technologies := make([]*models.Technology, 0, len(r.technologies))
	for _, t := range r.technologies {
		technologies = append(technologies, t.Clone())
	}
	sort.SliceStable(technologies, func(i, j int) bool {
		return technologies[i].Name < technologies[j].Name
	})
	return technologies, nil
}

func (r *MemTechnologyRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Technology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	technologies := []models.Technology{}
	for _, t := range r.technologies {
		if wanted[t.ID] {
			technologies = append(technologies, *t.Clone())
		}
	}
	sort.SliceStable(technologies, func(i, j int) bool {
		return technologies[i].Name < technologies[j].Name
	})
	return technologies, nil
}

func (r *MemTechnologyRepo) Add(_ context.Context, technology *models.Technology) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.technologies {
		if t.Name == technology.Name {
			return gorm.ErrDuplicatedKey
		}
	}

	now := r.now()
	technology.ID = r.nextID
	technology.CreatedAt = now
	technology.UpdatedAt = now
	r.nextID++
	r.technologies = append(r.technologies, technology.Clone())
	return nil
}

// Delete disconnects the technology from every project, then removes it
func (r *MemTechnologyRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.technologies {
		if t.ID == id {
			if r.projects != nil {
				r.projects.disconnectTechnology(id)
			}
			r.technologies = append(r.technologies[:i], r.technologies[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type MemServiceRepo struct {
	mu       sync.RWMutex
	services []*models.Service
	now      func() time.Time
}

func NewMemServiceRepo() *MemServiceRepo {
	return &MemServiceRepo{now: time.Now}
}

// FindAll returns all services in insertion order
func (r *MemServiceRepo) FindAll(_ context.Context) ([]*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]*models.Service, 0, len(r.services))
	for _, s := range r.services {
		c := *s
		services = append(services, &c)
	}
	return services, nil
}

func (r *MemServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.services {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemServiceRepo) Add(_ context.Context, service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	for _, s := range r.services {
		if s.ID == service.ID {
			return gorm.ErrDuplicatedKey
		}
	}

	now := r.now()
	service.CreatedAt = now
	service.UpdatedAt = now
	c := *service
	r.services = append(r.services, &c)
	return nil
}

func (r *MemServiceRepo) Update(_ context.Context, service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.services {
		if s.ID == service.ID {
			service.CreatedAt = s.CreatedAt
			service.UpdatedAt = r.now()
			c := *service
			r.services[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *MemServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.services {
		if s.ID == id {
			r.services = append(r.services[:i], r.services[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
