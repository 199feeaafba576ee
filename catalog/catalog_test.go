package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/dbtest"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
)

const uploadDir = "public/uploads"

var fixedNow = time.UnixMilli(1_700_000_000_000)

// flakyStore fails the Nth call to Save (1-based) and delegates everything else
type flakyStore struct {
	storage.ImageStore
	failOn int
	saves  int
}

func (s *flakyStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	s.saves++
	if s.saves == s.failOn {
		return "", errors.New("disk full")
	}
	return s.ImageStore.Save(ctx, name, content)
}

type fixture struct {
	catalog *Catalog
	fs      afero.Fs
	techs   []*models.Technology
}

func setup(t *testing.T, db database.Database, wrap func(storage.ImageStore) storage.ImageStore) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	var store storage.ImageStore = storage.NewLocalStore(fs, uploadDir, "/uploads")
	if wrap != nil {
		store = wrap(store)
	}
	c := New(db, store, WithClock(func() time.Time { return fixedNow }))

	f := &fixture{catalog: c, fs: fs}
	for _, name := range []string{"Go", "React", "Postgres"} {
		tech, err := c.CreateTechnology(context.Background(), TechnologyInput{Name: name})
		require.NoError(t, err)
		f.techs = append(f.techs, tech)
	}
	return f
}

func backends(t *testing.T) map[string]func() database.Database {
	return map[string]func() database.Database{
		"gorm":   func() database.Database { return database.New(dbtest.Open(t)) },
		"memory": database.NewInMemory,
	}
}

func upload(name, content string) ImageUpload {
	return ImageUpload{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func validInput(f *fixture, slug string) ProjectInput {
	return ProjectInput{
		Name:          "Portfolio Site",
		Slug:          slug,
		Overview:      "A personal site",
		Thumbnail:     "/uploads/thumb.png",
		Status:        models.ProjectStatusPublished,
		TechnologyIDs: []uint{f.techs[0].ID, f.techs[1].ID},
	}
}

func storedFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	var names []string
	err := afero.Walk(fs, uploadDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			names = append(names, filepath.Base(path))
		}
		return nil
	})
	require.NoError(t, err)
	return names
}

func TestProjectRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, open(), nil)

			start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
			in := validInput(f, "")
			in.Description = "Longer text"
			in.LiveDemo = "https://example.com"
			in.GithubLink = "https://github.com/example/site"
			in.Images = []string{"/uploads/a.png", "/uploads/b.png"}
			in.Resources = []models.Resource{{Name: "Write-up", URL: "https://example.com/post"}}
			in.Featured = true
			in.StartDate = &start
			in.EndDate = &end

			created, err := f.catalog.CreateProject(ctx, in)
			require.NoError(t, err)
			require.NotZero(t, created.ID)
			assert.Equal(t, "portfolio-site", created.Slug)

			for _, identifier := range []string{strconv.FormatUint(uint64(created.ID), 10), "portfolio-site"} {
				got, err := f.catalog.GetProject(ctx, identifier)
				require.NoError(t, err)
				assert.Equal(t, created.ID, got.ID)
				assert.Equal(t, in.Name, got.Name)
				assert.Equal(t, in.Overview, got.Overview)
				assert.Equal(t, "Longer text", *got.Description)
				assert.Equal(t, in.LiveDemo, *got.LiveDemo)
				assert.Equal(t, in.GithubLink, *got.GithubLink)
				assert.Equal(t, in.Thumbnail, got.Thumbnail)
				assert.Equal(t, in.Images, []string(got.Images))
				assert.Equal(t, in.Resources, []models.Resource(got.Resources))
				assert.True(t, got.Featured)
				assert.Equal(t, models.ProjectStatusPublished, got.Status)
				require.NotNil(t, got.StartDate)
				require.NotNil(t, got.EndDate)
				assert.True(t, start.Equal(*got.StartDate))
				assert.True(t, end.Equal(*got.EndDate))
				assert.ElementsMatch(t, []string{"Go", "React"}, got.TechnologyNames())
			}
		})
	}
}

func TestCreateProjectDefaults(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	in := validInput(f, "  My Cool_Project!! ")
	in.Status = ""
	in.Thumbnail = ""
	in.Images = []string{"/uploads/first.png"}

	p, err := f.catalog.CreateProject(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "my-cool-project", p.Slug)
	assert.Equal(t, models.ProjectStatusDraft, p.Status)
	assert.Equal(t, "/uploads/first.png", p.Thumbnail)
	assert.Nil(t, p.Description)
}

func TestDuplicateSlugLeavesStoreUnchanged(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, open(), nil)

			_, err := f.catalog.CreateProject(ctx, validInput(f, "my-project"))
			require.NoError(t, err)

			second := validInput(f, "my-project")
			second.Name = "Another"
			_, err = f.catalog.CreateProject(ctx, second)
			require.Error(t, err)
			assert.True(t, errs.IsDuplicateSlug(err))
			assert.Equal(t, "a project with this slug already exists", err.(*errs.ApiErr).Message())

			projects, err := f.catalog.ListProjects(ctx)
			require.NoError(t, err)
			require.Len(t, projects, 1)
			assert.Equal(t, "Portfolio Site", projects[0].Name)
		})
	}
}

func TestCreateProjectValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)

	cases := map[string]struct {
		mutate func(*ProjectInput)
		field  string
	}{
		"missing name":         {func(in *ProjectInput) { in.Name = "  " }, "name"},
		"missing overview":     {func(in *ProjectInput) { in.Overview = "" }, "overview"},
		"no technologies":      {func(in *ProjectInput) { in.TechnologyIDs = nil }, "technologyIds"},
		"unknown technology":   {func(in *ProjectInput) { in.TechnologyIDs = []uint{f.techs[0].ID, 999} }, "technologyIds"},
		"missing thumbnail":    {func(in *ProjectInput) { in.Thumbnail = "" }, "thumbnail"},
		"bad status":           {func(in *ProjectInput) { in.Status = "LIVE" }, "status"},
		"relative demo link":   {func(in *ProjectInput) { in.LiveDemo = "example.com" }, "liveDemo"},
		"resource without url": {func(in *ProjectInput) { in.Resources = []models.Resource{{Name: "Docs"}} }, "url"},
		"name without letters": {func(in *ProjectInput) { in.Name = "!!!" }, "slug"},
		"numeric name":         {func(in *ProjectInput) { in.Name = "2024" }, "slug"},
		"numeric slug":         {func(in *ProjectInput) { in.Slug = " 2 " }, "slug"},
		"end before start": {func(in *ProjectInput) {
			in.StartDate = &start
			in.EndDate = &before
		}, "endDate"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput(f, "")
			tc.mutate(&in)
			_, err := f.catalog.CreateProject(ctx, in)
			require.Error(t, err)
			assert.True(t, errs.IsValidationError(err), err.Error())

			var apiErr *errs.ApiErr
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, 400, apiErr.StatusCode)
			assert.Equal(t, tc.field, apiErr.Field)
		})
	}

	projects, err := f.catalog.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdateProjectReplacesFields(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, open(), nil)

			in := validInput(f, "original")
			in.Description = "to be cleared"
			in.Featured = true
			created, err := f.catalog.CreateProject(ctx, in)
			require.NoError(t, err)

			replacement := ProjectInput{
				Name:          "Renamed",
				Overview:      "New overview",
				Thumbnail:     "/uploads/new.png",
				TechnologyIDs: []uint{f.techs[2].ID},
			}
			updated, err := f.catalog.UpdateProject(ctx, created.ID, replacement)
			require.NoError(t, err)
			assert.Equal(t, created.ID, updated.ID)

			got, err := f.catalog.GetProject(ctx, "original")
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, "Renamed", got.Name)
			assert.Nil(t, got.Description)
			assert.False(t, got.Featured)
			assert.Equal(t, models.ProjectStatusDraft, got.Status)
			assert.Equal(t, []string{"Postgres"}, got.TechnologyNames())
			assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestUpdateProjectErrors(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	_, err := f.catalog.UpdateProject(ctx, 42, validInput(f, "ghost"))
	assert.True(t, errs.IsNotFound(err))

	_, err = f.catalog.CreateProject(ctx, validInput(f, "taken"))
	require.NoError(t, err)
	other, err := f.catalog.CreateProject(ctx, validInput(f, "other"))
	require.NoError(t, err)

	_, err = f.catalog.UpdateProject(ctx, other.ID, validInput(f, "taken"))
	assert.True(t, errs.IsDuplicateSlug(err))

	// keeping its own slug is not a clash
	_, err = f.catalog.UpdateProject(ctx, other.ID, validInput(f, "other"))
	assert.NoError(t, err)
}

func TestDeleteProjectRemovesFromListing(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, open(), nil)

			in := validInput(f, "doomed")
			in.Thumbnail = ""
			p, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{upload("shot.png", "png-bytes")})
			require.NoError(t, err)
			keep, err := f.catalog.CreateProject(ctx, validInput(f, "keeper"))
			require.NoError(t, err)
			require.Len(t, storedFiles(t, f.fs), 1)

			require.NoError(t, f.catalog.DeleteProject(ctx, p.ID))

			projects, err := f.catalog.ListProjects(ctx)
			require.NoError(t, err)
			require.Len(t, projects, 1)
			assert.Equal(t, keep.ID, projects[0].ID)

			_, err = f.catalog.GetProject(ctx, "doomed")
			assert.True(t, errs.IsNotFound(err))
			assert.Empty(t, storedFiles(t, f.fs))

			assert.True(t, errs.IsNotFound(f.catalog.DeleteProject(ctx, p.ID)))

			// technologies survive their projects
			techs, err := f.catalog.ListTechnologies(ctx)
			require.NoError(t, err)
			assert.Len(t, techs, 3)
		})
	}
}

func TestGetProjectNotFound(t *testing.T) {
	f := setup(t, database.NewInMemory(), nil)
	for _, identifier := range []string{"7", "no-such-project"} {
		_, err := f.catalog.GetProject(context.Background(), identifier)
		assert.True(t, errs.IsNotFound(err), identifier)
	}
}

func TestGetProjectByIDOrSlug(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	first, err := f.catalog.CreateProject(ctx, validInput(f, "first"))
	require.NoError(t, err)
	recap, err := f.catalog.CreateProject(ctx, validInput(f, "2024-recap"))
	require.NoError(t, err)

	got, err := f.catalog.GetProject(ctx, strconv.FormatUint(uint64(recap.ID), 10))
	require.NoError(t, err)
	assert.Equal(t, "2024-recap", got.Slug)

	got, err = f.catalog.GetProject(ctx, "2024-recap")
	require.NoError(t, err)
	assert.Equal(t, recap.ID, got.ID)

	got, err = f.catalog.GetProject(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestProjectStatusIsNormalized(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	in := validInput(f, "shelved")
	in.Status = " archived "
	p, err := f.catalog.CreateProject(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusArchived, p.Status)

	in = validInput(f, "live")
	in.Status = "LIVE"
	_, err = f.catalog.CreateProject(ctx, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of DRAFT, PUBLISHED, ARCHIVED")
}
