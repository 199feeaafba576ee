// Package catalog holds the portfolio's business rules: project, technology and
// service management, image upload orchestration and the public filter.
package catalog

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/storage"
)

type Catalog struct {
	projects     database.ProjectRepository
	technologies database.TechnologyRepository
	services     database.ServiceRepository
	images       storage.ImageStore
	logger       zerolog.Logger
	now          func() time.Time
}

type Option func(*Catalog)

// WithClock replaces time.Now, which drives upload file names
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

func New(db database.Database, images storage.ImageStore, opts ...Option) *Catalog {
	c := &Catalog{
		projects:     db.ProjectRepo(),
		technologies: db.TechnologyRepo(),
		services:     db.ServiceRepo(),
		images:       images,
		logger:       log.With().Str("component", "catalog").Logger(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookupErr maps a repository read error to a 404 or a database error
func lookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFound(entity)
	}
	return errs.NewDatabaseError("find", entity, err)
}
