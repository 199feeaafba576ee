package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/storage"
)

func TestCreateProjectWithImagesNamesFilesInOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	in := validInput(f, "gallery")
	in.Thumbnail = ""
	p, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{
		upload("front.PNG", "one"),
		upload("empty.png", ""),
		upload("back.jpg", "two"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/uploads/gallery-1700000000000.png",
		"/uploads/gallery-1700000000001.jpg",
	}, []string(p.Images))
	assert.Equal(t, "/uploads/gallery-1700000000000.png", p.Thumbnail)
	assert.ElementsMatch(t, []string{"gallery-1700000000000.png", "gallery-1700000000001.jpg"}, storedFiles(t, f.fs))
}

func TestExistingImagesComeFirst(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	in := validInput(f, "mixed")
	in.Thumbnail = ""
	in.Images = []string{"https://cdn.example.com/hero.png"}
	p, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{upload("extra.webp", "x")})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn.example.com/hero.png", "/uploads/mixed-1700000000000.webp"}, []string(p.Images))
	assert.Equal(t, "https://cdn.example.com/hero.png", p.Thumbnail)
}

func TestFailedWriteLeavesNothingBehind(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, open(), func(s storage.ImageStore) storage.ImageStore {
				return &flakyStore{ImageStore: s, failOn: 2}
			})

			in := validInput(f, "atomic")
			in.Thumbnail = ""
			_, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{
				upload("one.png", "first"),
				upload("two.png", "second"),
			})
			require.Error(t, err)
			assert.True(t, errs.IsStorageError(err))

			projects, err := f.catalog.ListProjects(ctx)
			require.NoError(t, err)
			assert.Empty(t, projects)
			assert.Empty(t, storedFiles(t, f.fs))
		})
	}
}

func TestFailedUpdateWriteKeepsProject(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), func(s storage.ImageStore) storage.ImageStore {
		return &flakyStore{ImageStore: s, failOn: 3}
	})

	in := validInput(f, "stable")
	in.Thumbnail = ""
	p, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{upload("a.png", "a")})
	require.NoError(t, err)

	update := validInput(f, "stable")
	update.Thumbnail = ""
	update.Images = []string(p.Images)
	f.catalog.now = func() time.Time { return fixedNow.Add(time.Second) }
	_, err = f.catalog.UpdateProjectWithImages(ctx, p.ID, update, []ImageUpload{
		upload("b.png", "b"),
		upload("c.png", "c"),
	})
	require.Error(t, err)
	assert.True(t, errs.IsStorageError(err))

	got, err := f.catalog.GetProject(ctx, "stable")
	require.NoError(t, err)
	assert.Equal(t, []string(p.Images), []string(got.Images))
	assert.Equal(t, []string{"stable-1700000000000.png"}, storedFiles(t, f.fs))
}

func TestUnsupportedUploadRejectedBeforeWriting(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	in := validInput(f, "scripts")
	_, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{
		upload("ok.png", "fine"),
		upload("evil.exe", "nope"),
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))
	assert.Empty(t, storedFiles(t, f.fs))
}

func TestUpdateRemovesDroppedUploads(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	in := validInput(f, "rotating")
	in.Thumbnail = ""
	p, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{upload("old.png", "old")})
	require.NoError(t, err)

	update := validInput(f, "rotating")
	update.Thumbnail = ""
	f.catalog.now = func() time.Time { return fixedNow.Add(time.Second) }
	updated, err := f.catalog.UpdateProjectWithImages(ctx, p.ID, update, []ImageUpload{upload("new.png", "new")})
	require.NoError(t, err)

	assert.Equal(t, []string{"/uploads/rotating-1700000001000.png"}, []string(updated.Images))
	assert.Equal(t, []string{"rotating-1700000001000.png"}, storedFiles(t, f.fs))
}

func TestParseTechnologyIDs(t *testing.T) {
	assert.Equal(t, []uint{1, 3}, ParseTechnologyIDs("1, abc, 3"))
	assert.Equal(t, []uint{4}, ParseTechnologyIDs(" ,0,-2,4,"))
	assert.Empty(t, ParseTechnologyIDs(""))
}

func TestParseResources(t *testing.T) {
	resources, err := ParseResources(`[{"name":"Docs","url":"https://example.com/docs"}]`)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Docs", resources[0].Name)

	resources, err = ParseResources("  ")
	require.NoError(t, err)
	assert.Empty(t, resources)

	_, err = ParseResources(`{"name":`)
	require.Error(t, err)
	assert.True(t, errs.IsMalformedInputError(err))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("startDate", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("startDate", "2024-03-15T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("endDate", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("endDate", "15/03/2024")
	assert.True(t, errs.IsMalformedInputError(err))
}

func TestParseFeaturedAndSplitList(t *testing.T) {
	assert.True(t, ParseFeatured("true"))
	assert.False(t, ParseFeatured("on"))
	assert.False(t, ParseFeatured("TRUE"))
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, SplitList("/uploads/a.png, /uploads/b.png\n"))
	assert.Empty(t, SplitList(""))
}

func TestEmptyUploadDoesNotCountAsThumbnail(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, open(), nil)

			in := validInput(f, "blank")
			in.Thumbnail = ""
			_, err := f.catalog.CreateProjectWithImages(ctx, in, []ImageUpload{upload("empty.png", "")})
			require.Error(t, err)
			assert.True(t, errs.IsValidationError(err))
			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "thumbnail", apiErr.Field)

			projects, err := f.catalog.ListProjects(ctx)
			require.NoError(t, err)
			assert.Empty(t, projects)
			assert.Empty(t, storedFiles(t, f.fs))
		})
	}
}

func TestUpdateWithOnlyEmptyUploadKeepsThumbnail(t *testing.T) {
	ctx := context.Background()
	f := setup(t, database.NewInMemory(), nil)

	p, err := f.catalog.CreateProject(ctx, validInput(f, "covered"))
	require.NoError(t, err)

	update := validInput(f, "covered")
	update.Thumbnail = ""
	_, err = f.catalog.UpdateProjectWithImages(ctx, p.ID, update, []ImageUpload{upload("empty.jpg", "")})
	require.Error(t, err)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "thumbnail", apiErr.Field)

	got, err := f.catalog.GetProject(ctx, "covered")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/thumb.png", got.Thumbnail)
	assert.Empty(t, storedFiles(t, f.fs))
}
