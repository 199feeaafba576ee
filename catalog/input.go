package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// ProjectInput is the full set of editable project fields. Create and update
// both take the complete set: a field left empty on update is cleared.
type ProjectInput struct {
	Name          string               `json:"name" validate:"required"`
	Slug          string               `json:"slug"`
	Overview      string               `json:"overview" validate:"required"`
	Description   string               `json:"description"`
	LiveDemo      string               `json:"liveDemo" validate:"omitempty,http_url"`
	GithubLink    string               `json:"githubLink" validate:"omitempty,http_url"`
	Thumbnail     string               `json:"thumbnail"`
	Images        []string             `json:"images"`
	Resources     []models.Resource    `json:"resources" validate:"dive"`
	Featured      bool                 `json:"featured"`
	Status        models.ProjectStatus `json:"status" validate:"omitempty,project_status"`
	StartDate     *time.Time           `json:"startDate"`
	EndDate       *time.Time           `json:"endDate"`
	TechnologyIDs []uint               `json:"technologyIds" validate:"min=1"`
}

type TechnologyInput struct {
	Name     string `json:"name" validate:"required"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

type ServiceInput struct {
	Title            string `json:"title" validate:"required"`
	ShortDescription string `json:"shortDescription" validate:"required"`
	LongDescription  string `json:"longDescription" validate:"required"`
	Icon             string `json:"icon" validate:"required,service_icon"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("service_icon", func(fl validator.FieldLevel) bool {
		return models.IsServiceIcon(fl.Field().String())
	})
	_ = v.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
		return models.ProjectStatus(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the tag rules and converts the first failure into an ApiErr
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return errs.NewMissingRequiredFieldError(field)
	case "min":
		if field == "technologyIds" {
			return errs.NewValidationError(field, "at least one technology is required")
		}
		return errs.NewValidationError(field, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
	case "http_url":
		return errs.NewValidationError(field, fmt.Sprintf("%s must be an http(s) URL", field))
	case "project_status":
		return errs.NewValidationError(field, fmt.Sprintf("%s must be one of %s, %s, %s", field,
			models.ProjectStatusDraft, models.ProjectStatusPublished, models.ProjectStatusArchived))
	case "service_icon":
		return errs.NewValidationError(field, fmt.Sprintf("%s is not a supported icon", fe.Value()))
	}
	return errs.NewValidationError(field, fmt.Sprintf("%s is invalid", field))
}

func (in *ProjectInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = Slugify(in.Slug)
	in.Overview = strings.TrimSpace(in.Overview)
	in.Description = strings.TrimSpace(in.Description)
	in.LiveDemo = strings.TrimSpace(in.LiveDemo)
	in.GithubLink = strings.TrimSpace(in.GithubLink)
	in.Thumbnail = strings.TrimSpace(in.Thumbnail)
	in.Status = models.ProjectStatus(strings.ToUpper(strings.TrimSpace(string(in.Status))))

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images

	for i := range in.Resources {
		in.Resources[i].Name = strings.TrimSpace(in.Resources[i].Name)
		in.Resources[i].URL = strings.TrimSpace(in.Resources[i].URL)
	}
}

// check validates everything that can be known before images are written.
// pendingImages is the number of uploads that will be stored alongside.
func (in *ProjectInput) check(pendingImages int) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.Slug == "" {
		return errs.NewValidationError("slug", "slug must contain at least one letter or digit")
	}
	// numeric identifiers are read as project ids
	if strings.Trim(in.Slug, "0123456789") == "" {
		return errs.NewValidationError("slug", "slug must contain at least one letter")
	}
	if in.Thumbnail == "" && len(in.Images) == 0 && pendingImages == 0 {
		return errs.NewMissingRequiredFieldError("thumbnail")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return errs.NewValidationError("endDate", "endDate must not be before startDate")
	}
	return nil
}

func (in *TechnologyInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	in.Category = strings.TrimSpace(in.Category)
}

func (in *ServiceInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	in.LongDescription = strings.TrimSpace(in.LongDescription)
	in.Icon = strings.TrimSpace(in.Icon)
}

// Slugify lowercases s and collapses every run of characters other than
// ASCII letters and digits into a single hyphen
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
