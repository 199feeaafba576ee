package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/database/dbtest"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

func backends(t *testing.T) map[string]Database {
	return map[string]Database{
		"gorm":   New(dbtest.Open(t)),
		"memory": NewInMemory(),
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errs.IsUniqueViolation(err)
}

func seedTechnologies(t *testing.T, db Database, names ...string) []models.Technology {
	t.Helper()
	ctx := context.Background()
	var out []models.Technology
	for _, name := range names {
		tech := &models.Technology{Name: name}
		require.NoError(t, db.TechnologyRepo().Add(ctx, tech))
		out = append(out, *tech)
	}
	return out
}

func newProject(slug string, techs ...models.Technology) *models.Project {
	return &models.Project{
		Name:         "Project " + slug,
		Slug:         slug,
		Overview:     "overview of " + slug,
		Thumbnail:    "/uploads/" + slug + ".png",
		Images:       []string{"/uploads/" + slug + ".png"},
		Status:       models.ProjectStatusPublished,
		Technologies: techs,
	}
}

func TestProjectRepository(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			techs := seedTechnologies(t, db, "Go", "React")
			repo := db.ProjectRepo()

			first := newProject("first", techs...)
			require.NoError(t, repo.Add(ctx, first))
			assert.NotZero(t, first.ID)

			second := newProject("second", techs[0])
			require.NoError(t, repo.Add(ctx, second))
			assert.NotEqual(t, first.ID, second.ID)

			got, err := repo.FindByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "first", got.Slug)
			assert.ElementsMatch(t, []string{"Go", "React"}, got.TechnologyNames())
			assert.Equal(t, []string{"/uploads/first.png"}, []string(got.Images))

			bySlug, err := repo.FindBySlug(ctx, "second")
			require.NoError(t, err)
			assert.Equal(t, second.ID, bySlug.ID)

			_, err = repo.FindBySlug(ctx, "missing")
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

			dup := newProject("first", techs[0])
			assert.True(t, isDuplicate(repo.Add(ctx, dup)), "duplicate slug must be rejected")

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			got.Name = "Renamed"
			got.Technologies = []models.Technology{techs[1]}
			require.NoError(t, repo.Update(ctx, got))
			updated, err := repo.FindByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", updated.Name)
			assert.Equal(t, []string{"React"}, updated.TechnologyNames())

			require.NoError(t, repo.Delete(ctx, first.ID))
			_, err = repo.FindByID(ctx, first.ID)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, first.ID), gorm.ErrRecordNotFound)

			remaining, err := db.TechnologyRepo().FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, remaining, 2, "technologies survive project deletion")
		})
	}
}

func TestMemProjectRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemProjectRepo()
	p := newProject("copy")
	require.NoError(t, repo.Add(ctx, p))

	p.Images[0] = "mutated by caller"
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	all[0].Name = "mutated listing"

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Project copy", stored.Name)
	assert.Equal(t, "/uploads/copy.png", stored.Images[0])
}

func TestMemProjectRepoInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemProjectRepo()
	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Add(ctx, newProject(slug)))
	}
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Slug)
	assert.Equal(t, "c", all[2].Slug)
}

func TestTechnologyRepository(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			techs := seedTechnologies(t, db, "TypeScript", "Go")

			dup := &models.Technology{Name: "Go"}
			assert.True(t, isDuplicate(db.TechnologyRepo().Add(ctx, dup)))

			all, err := db.TechnologyRepo().FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Go", all[0].Name)

			found, err := db.TechnologyRepo().FindByIDs(ctx, []uint{techs[0].ID, 999})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "TypeScript", found[0].Name)

			project := newProject("linked", techs...)
			require.NoError(t, db.ProjectRepo().Add(ctx, project))

			require.NoError(t, db.TechnologyRepo().Delete(ctx, techs[1].ID))
			assert.ErrorIs(t, db.TechnologyRepo().Delete(ctx, techs[1].ID), gorm.ErrRecordNotFound)

			reloaded, err := db.ProjectRepo().FindByID(ctx, project.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"TypeScript"}, reloaded.TechnologyNames())
		})
	}
}

func TestServiceRepository(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := db.ServiceRepo()

			svc := &models.Service{
				ID:               uuid.New(),
				Title:            "Web development",
				ShortDescription: "Sites",
				LongDescription:  "Full-stack web applications",
				Icon:             "Code",
			}
			require.NoError(t, repo.Add(ctx, svc))

			got, err := repo.FindByID(ctx, svc.ID)
			require.NoError(t, err)
			assert.Equal(t, "Web development", got.Title)

			got.Title = "Backend development"
			require.NoError(t, repo.Update(ctx, got))
			got, err = repo.FindByID(ctx, svc.ID)
			require.NoError(t, err)
			assert.Equal(t, "Backend development", got.Title)

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)

			require.NoError(t, repo.Delete(ctx, svc.ID))
			assert.ErrorIs(t, repo.Delete(ctx, svc.ID), gorm.ErrRecordNotFound)
			_, err = repo.FindByID(ctx, svc.ID)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})
	}
}
