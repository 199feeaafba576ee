package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// projectSubmission is a decoded create or update request
type projectSubmission struct {
	input   catalog.ProjectInput
	uploads []catalog.ImageUpload
	form    *multipart.Form
}

// cleanup removes the temporary files multipart parsing may have spilled to disk
func (s projectSubmission) cleanup() {
	if s.form != nil {
		_ = s.form.RemoveAll()
	}
}

// readProjectSubmission accepts multipart forms (with files under "images"),
// url-encoded forms and JSON bodies
func readProjectSubmission(w http.ResponseWriter, r *http.Request, maxBytes int64) (projectSubmission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return projectSubmission{}, errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), acceptedProjectTypes)
	}

	switch mediaType {
	case "application/json":
		var input catalog.ProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return projectSubmission{}, bodyError(err, maxBytes, errs.NewInvalidJSONError(err))
		}
		return projectSubmission{input: input}, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return projectSubmission{}, bodyError(err, maxBytes, errs.NewBadRequestError("could not parse multipart form"))
		}
		sub := projectSubmission{form: r.MultipartForm}
		input, err := projectInputFromForm(r)
		if err != nil {
			sub.cleanup()
			return projectSubmission{}, err
		}
		sub.input = input
		sub.uploads = uploadsFromForm(r.MultipartForm)
		return sub, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return projectSubmission{}, bodyError(err, maxBytes, errs.NewBadRequestError("could not parse form"))
		}
		input, err := projectInputFromForm(r)
		if err != nil {
			return projectSubmission{}, err
		}
		return projectSubmission{input: input}, nil
	}

	return projectSubmission{}, errs.NewUnsupportedMediaTypeError(mediaType, acceptedProjectTypes)
}

var acceptedProjectTypes = []string{"multipart/form-data", "application/x-www-form-urlencoded", "application/json"}

func bodyError(err error, maxBytes int64, fallback error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errs.NewMaxBodySizeExceededError(maxBytes)
	}
	return fallback
}

func projectInputFromForm(r *http.Request) (catalog.ProjectInput, error) {
	resources, err := catalog.ParseResources(r.FormValue("resources"))
	if err != nil {
		return catalog.ProjectInput{}, err
	}
	startDate, err := catalog.ParseDate("startDate", r.FormValue("startDate"))
	if err != nil {
		return catalog.ProjectInput{}, err
	}
	endDate, err := catalog.ParseDate("endDate", r.FormValue("endDate"))
	if err != nil {
		return catalog.ProjectInput{}, err
	}

	return catalog.ProjectInput{
		Name:          r.FormValue("name"),
		Slug:          r.FormValue("slug"),
		Overview:      r.FormValue("overview"),
		Description:   r.FormValue("description"),
		LiveDemo:      r.FormValue("liveDemo"),
		GithubLink:    r.FormValue("githubLink"),
		Thumbnail:     r.FormValue("thumbnail"),
		Images:        catalog.SplitList(r.FormValue("imageUrls")),
		Resources:     resources,
		Featured:      catalog.ParseFeatured(r.FormValue("featured")),
		Status:        models.ProjectStatus(r.FormValue("status")),
		StartDate:     startDate,
		EndDate:       endDate,
		TechnologyIDs: catalog.ParseTechnologyIDs(r.FormValue("technologyIds")),
	}, nil
}

func uploadsFromForm(form *multipart.Form) []catalog.ImageUpload {
	if form == nil {
		return nil
	}
	headers := form.File["images"]
	uploads := make([]catalog.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, catalog.ImageUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}
