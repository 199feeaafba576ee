package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	ext, ok := Extension("Screenshot.PNG")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = Extension("payload.exe")
	assert.False(t, ok)

	_, ok = Extension("noext")
	assert.False(t, ok)
}

func TestLocalStoreSaveCreatesDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewLocalStore(fs, "public/uploads", "/uploads/")

	path, err := store.Save(context.Background(), "site-1700000000000.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/site-1700000000000.png", path)

	data, err := afero.ReadFile(fs, "public/uploads/site-1700000000000.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.True(t, store.Owns(path))
	assert.False(t, store.Owns("https://cdn.example.com/site.png"))
}

func TestLocalStoreRejectsPathTraversal(t *testing.T) {
	store := NewLocalStore(afero.NewMemMapFs(), "public/uploads", "/uploads")
	_, err := store.Save(context.Background(), "../escape.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalStoreReadOnlyFails(t *testing.T) {
	store := NewLocalStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "public/uploads", "/uploads")
	_, err := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalStoreRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewLocalStore(fs, "public/uploads", "/uploads")
	ctx := context.Background()

	path, err := store.Save(ctx, "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, path))

	exists, err := afero.Exists(fs, "public/uploads/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// missing and foreign paths are not errors
	assert.NoError(t, store.Remove(ctx, path))
	assert.NoError(t, store.Remove(ctx, "/placeholder.svg"))
}

func TestLocalStoreHandlerServesFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewLocalStore(fs, "public/uploads", "/uploads")
	_, err := store.Save(context.Background(), "served.png", strings.NewReader("image"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/served.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image", rec.Body.String())
}

type fakeS3 struct {
	puts    map[string]string
	types   map[string]string
	deletes []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(params.Body)
	f.puts[aws.ToString(params.Key)] = string(body)
	f.types[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{puts: map[string]string{}, types: map[string]string{}}
	store := NewS3Store(client, S3Config{Bucket: "portfolio", Region: "eu-west-1", Prefix: "uploads"})
	ctx := context.Background()

	url, err := store.Save(ctx, "site-1.webp", strings.NewReader("webp"))
	require.NoError(t, err)
	assert.Equal(t, "https://portfolio.s3.eu-west-1.amazonaws.com/uploads/site-1.webp", url)
	assert.Equal(t, "webp", client.puts["uploads/site-1.webp"])
	assert.Equal(t, "image/webp", client.types["uploads/site-1.webp"])

	require.NoError(t, store.Remove(ctx, url))
	assert.Equal(t, []string{"uploads/site-1.webp"}, client.deletes)

	require.NoError(t, store.Remove(ctx, "/uploads/local.png"))
	assert.Len(t, client.deletes, 1)
}

func TestS3StoreCustomBaseURLAndFailure(t *testing.T) {
	client := &fakeS3{puts: map[string]string{}, types: map[string]string{}, putErr: errors.New("denied")}
	store := NewS3Store(client, S3Config{Bucket: "b", Region: "r", BaseURL: "https://cdn.example.com/"})

	assert.True(t, store.Owns("https://cdn.example.com/a.png"))
	_, err := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	assert.Error(t, err)
}
