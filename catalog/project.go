package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// ListProjects returns every project, newest first, with its technologies
func (c *Catalog) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := c.projects.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

// GetProject looks a project up by numeric id, falling back to slug for anything else
func (c *Catalog) GetProject(ctx context.Context, identifier string) (*models.Project, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errs.NewMissingRequiredFieldError("projectID")
	}

	var (
		project *models.Project
		err     error
	)
	if id, convErr := strconv.ParseUint(identifier, 10, 64); convErr == nil {
		project, err = c.projects.FindByID(ctx, uint(id))
	} else {
		project, err = c.projects.FindBySlug(ctx, Slugify(identifier))
	}
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	return project, nil
}

func (c *Catalog) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	return c.CreateProjectWithImages(ctx, in, nil)
}

// CreateProjectWithImages stores the uploads, then persists the project with
// their paths appended to in.Images. Nothing is left behind if any step fails.
func (c *Catalog) CreateProjectWithImages(ctx context.Context, in ProjectInput, uploads []ImageUpload) (*models.Project, error) {
	in.normalize()
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}

	project, err := c.prepareProject(ctx, in, 0, uploads)
	if err != nil {
		return nil, err
	}

	written, err := c.saveImages(ctx, project.Slug, uploads)
	if err != nil {
		return nil, err
	}
	attachImages(project, written)

	if err := c.projects.Add(ctx, project); err != nil {
		c.removeImages(ctx, written)
		return nil, c.writeErr(err, "create", project.Slug)
	}

	c.logger.Info().Uint("projectID", project.ID).Str("slug", project.Slug).Int("uploaded", len(written)).Msg("project created")
	return project, nil
}

func (c *Catalog) UpdateProject(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	return c.UpdateProjectWithImages(ctx, id, in, nil)
}

// UpdateProjectWithImages replaces every editable field of the project. An empty
// slug keeps the current one so published links survive a rename.
func (c *Catalog) UpdateProjectWithImages(ctx context.Context, id uint, in ProjectInput, uploads []ImageUpload) (*models.Project, error) {
	existing, err := c.projects.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project")
	}

	in.normalize()
	if in.Slug == "" {
		in.Slug = existing.Slug
	}

	project, err := c.prepareProject(ctx, in, existing.ID, uploads)
	if err != nil {
		return nil, err
	}
	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt

	written, err := c.saveImages(ctx, project.Slug, uploads)
	if err != nil {
		return nil, err
	}
	attachImages(project, written)

	if err := c.projects.Update(ctx, project); err != nil {
		c.removeImages(ctx, written)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("project")
		}
		return nil, c.writeErr(err, "update", project.Slug)
	}

	c.removeImages(ctx, droppedImages(existing, project))
	c.logger.Info().Uint("projectID", project.ID).Str("slug", project.Slug).Int("uploaded", len(written)).Msg("project updated")
	return project, nil
}

// DeleteProject removes the project and its technology links. Stored images are
// removed afterwards on a best effort basis.
func (c *Catalog) DeleteProject(ctx context.Context, id uint) error {
	existing, err := c.projects.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "project")
	}

	if err := c.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("project")
		}
		return errs.NewDatabaseError("delete", "project", err)
	}

	c.removeImages(ctx, projectImages(existing))
	c.logger.Info().Uint("projectID", id).Str("slug", existing.Slug).Msg("project deleted")
	return nil
}

// prepareProject validates in and builds the record to persist. excludeID is the
// project being updated, which may keep its own slug.
func (c *Catalog) prepareProject(ctx context.Context, in ProjectInput, excludeID uint, uploads []ImageUpload) (*models.Project, error) {
	if err := in.check(countNonEmpty(uploads)); err != nil {
		return nil, err
	}
	if err := checkUploads(uploads); err != nil {
		return nil, err
	}

	technologies, err := c.resolveTechnologies(ctx, in.TechnologyIDs)
	if err != nil {
		return nil, err
	}

	clash, err := c.projects.FindBySlug(ctx, in.Slug)
	switch {
	case err == nil && clash.ID != excludeID:
		return nil, errs.NewDuplicateSlugError(in.Slug, nil)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errs.NewDatabaseError("find", "project", err)
	}

	status := in.Status
	if status == "" {
		status = models.ProjectStatusDraft
	}

	images := append([]string{}, in.Images...)
	resources := append([]models.Resource{}, in.Resources...)

	return &models.Project{
		Name:         in.Name,
		Slug:         in.Slug,
		Overview:     in.Overview,
		Description:  optional(in.Description),
		LiveDemo:     optional(in.LiveDemo),
		GithubLink:   optional(in.GithubLink),
		Thumbnail:    in.Thumbnail,
		Images:       images,
		Resources:    resources,
		Featured:     in.Featured,
		Status:       status,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Technologies: technologies,
	}, nil
}

// resolveTechnologies loads the technologies for ids, rejecting ids that do not exist
func (c *Catalog) resolveTechnologies(ctx context.Context, ids []uint) ([]models.Technology, error) {
	ids = uniqueIDs(ids)
	found, err := c.technologies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "technologies", err)
	}
	if len(found) == len(ids) {
		return found, nil
	}

	known := make(map[uint]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, errs.NewValidationError("technologyIds", fmt.Sprintf("technology %d does not exist", id))
		}
	}
	return found, nil
}

func (c *Catalog) writeErr(err error, operation, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errs.IsUniqueViolation(err) {
		return errs.NewDuplicateSlugError(slug, err)
	}
	return errs.NewDatabaseError(operation, "project", err)
}

func attachImages(project *models.Project, written []string) {
	project.Images = append(project.Images, written...)
	if project.Thumbnail == "" && len(project.Images) > 0 {
		project.Thumbnail = project.Images[0]
	}
}

// projectImages lists every image path a project references, thumbnail included
func projectImages(p *models.Project) []string {
	seen := make(map[string]bool, len(p.Images)+1)
	out := make([]string, 0, len(p.Images)+1)
	for _, img := range append([]string{p.Thumbnail}, p.Images...) {
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true
		out = append(out, img)
	}
	return out
}

// droppedImages returns the images before referenced that after no longer does
func droppedImages(before, after *models.Project) []string {
	kept := make(map[string]bool)
	for _, img := range projectImages(after) {
		kept[img] = true
	}
	var dropped []string
	for _, img := range projectImages(before) {
		if !kept[img] {
			dropped = append(dropped, img)
		}
	}
	return dropped
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
