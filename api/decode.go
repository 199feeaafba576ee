package api

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
)

// maxFormBytes bounds JSON and url-encoded bodies that carry no files
const maxFormBytes = 1 << 20

// decodeBody fills dst from a JSON body, or calls fromForm for form posts
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, fromForm func(get func(string) string)) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return bodyError(err, maxFormBytes, errs.NewInvalidJSONError(err))
		}
		return nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return bodyError(err, maxFormBytes, errs.NewBadRequestError("could not parse multipart form"))
		}
		defer r.MultipartForm.RemoveAll()
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return bodyError(err, maxFormBytes, errs.NewBadRequestError("could not parse form"))
		}
	default:
		return errs.NewUnsupportedMediaTypeError(mediaType, []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"})
	}

	fromForm(r.PostFormValue)
	return nil
}
