package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

func (c *Catalog) ListTechnologies(ctx context.Context) ([]*models.Technology, error) {
	technologies, err := c.technologies.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "technologies", err)
	}
	if technologies == nil {
		technologies = []*models.Technology{}
	}
	return technologies, nil
}

func (c *Catalog) CreateTechnology(ctx context.Context, in TechnologyInput) (*models.Technology, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	technology := &models.Technology{
		Name:     in.Name,
		Icon:     optional(in.Icon),
		Category: optional(in.Category),
	}
	if err := c.technologies.Add(ctx, technology); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errs.IsUniqueViolation(err) {
			return nil, errs.NewConflictError(fmt.Sprintf("technology %q already exists", in.Name))
		}
		return nil, errs.NewDatabaseError("create", "technology", err)
	}

	c.logger.Info().Uint("technologyID", technology.ID).Str("name", technology.Name).Msg("technology created")
	return technology, nil
}

// DeleteTechnology unlinks the technology from every project, then removes it
func (c *Catalog) DeleteTechnology(ctx context.Context, id uint) error {
	if err := c.technologies.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("technology")
		}
		return errs.NewDatabaseError("delete", "technology", err)
	}
	c.logger.Info().Uint("technologyID", id).Msg("technology deleted")
	return nil
}
