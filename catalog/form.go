package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// ParseTechnologyIDs reads a comma separated id list, dropping tokens that are
// not positive integers
func ParseTechnologyIDs(raw string) []uint {
	ids := []uint{}
	for _, token := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(token), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// ParseResources decodes a JSON array of {name, url}. An empty value means no
// resources; anything unparsable rejects the submission.
func ParseResources(raw string) ([]models.Resource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.Resource{}, nil
	}
	var resources []models.Resource
	if err := json.Unmarshal([]byte(raw), &resources); err != nil {
		return nil, errs.NewMalformedInputError("resources", err)
	}
	if resources == nil {
		resources = []models.Resource{}
	}
	return resources, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. An empty value is a nil date.
func ParseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewMalformedInputError(field, err)
	}
	t = t.UTC()
	return &t, nil
}

// ParseFeatured is true only for the literal "true"
func ParseFeatured(raw string) bool {
	return strings.TrimSpace(raw) == "true"
}

// SplitList splits a comma or newline separated list of image URLs
func SplitList(raw string) []string {
	out := []string{}
	for _, item := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
