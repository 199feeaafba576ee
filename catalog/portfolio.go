package catalog

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/models"
)

// Portfolio is everything the public site renders on its landing page
type Portfolio struct {
	Projects     []*models.Project    `json:"projects"`
	Technologies []*models.Technology `json:"technologies"`
	Services     []*models.Service    `json:"services"`
}

// Portfolio loads published projects (featured first), technologies and services concurrently
func (c *Catalog) Portfolio(ctx context.Context) (*Portfolio, error) {
	var out Portfolio
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		projects, err := c.ListProjects(gctx)
		if err != nil {
			return err
		}
		out.Projects = publishedFeaturedFirst(projects)
		return nil
	})
	g.Go(func() error {
		technologies, err := c.ListTechnologies(gctx)
		out.Technologies = technologies
		return err
	})
	g.Go(func() error {
		services, err := c.ListServices(gctx)
		out.Services = services
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func publishedFeaturedFirst(projects []*models.Project) []*models.Project {
	published := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == models.ProjectStatusPublished {
			published = append(published, p)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].Featured && !published[j].Featured
	})
	return published
}
