package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

func (c *Catalog) ListServices(ctx context.Context) ([]*models.Service, error) {
	services, err := c.services.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "services", err)
	}
	if services == nil {
		services = []*models.Service{}
	}
	return services, nil
}

func (c *Catalog) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := c.services.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "service")
	}
	return service, nil
}

func (c *Catalog) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	service := &models.Service{
		ID:               uuid.New(),
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		LongDescription:  in.LongDescription,
		Icon:             in.Icon,
	}
	if err := c.services.Add(ctx, service); err != nil {
		return nil, errs.NewDatabaseError("create", "service", err)
	}

	c.logger.Info().Str("serviceID", service.ID.String()).Msg("service created")
	return service, nil
}

// UpdateService replaces every editable field; id and createdAt are kept
func (c *Catalog) UpdateService(ctx context.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	existing, err := c.services.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "service")
	}

	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.ShortDescription = in.ShortDescription
	existing.LongDescription = in.LongDescription
	existing.Icon = in.Icon
	if err := c.services.Update(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("service")
		}
		return nil, errs.NewDatabaseError("update", "service", err)
	}
	return existing, nil
}

func (c *Catalog) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := c.services.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("service")
		}
		return errs.NewDatabaseError("delete", "service", err)
	}
	c.logger.Info().Str("serviceID", id.String()).Msg("service deleted")
	return nil
}
