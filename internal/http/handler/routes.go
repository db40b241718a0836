package handler

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolapi/internal/auth"
	"schoolapi/internal/http/middleware"
	"schoolapi/internal/logger"
	"schoolapi/internal/model"
	"schoolapi/internal/service"
	"schoolapi/internal/validation"
)

const (
	msgSchoolAdded   = "School added successfully!"
	msgAddFailed     = "Failed to add school"
	msgFetchFailed   = "Failed to fetch schools"
	msgContactSent   = "Message sent successfully!"
	msgContactFailed = "Failed to send message"
)

// Deps are the collaborators the HTTP layer needs.
// Signer may be nil, which leaves write routes open.
type Deps struct {
	DB           *sql.DB
	Schools      service.SchoolService
	Contacts     service.ContactService
	Signer       *auth.Signer
	UploadsMount string
}

// AddSchoolResponse is returned by POST /api/addschool.
type AddSchoolResponse struct {
	Message string        `json:"message"`
	Data    *model.School `json:"data"`
}

// ShowSchoolsResponse is returned by GET /api/showschool.
type ShowSchoolsResponse struct {
	Schools []model.School `json:"schools"`
}

// ContactRequest is the body of POST /api/contact (JSON or form encoded).
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// MessageResponse carries a single user-facing message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	mount := deps.UploadsMount
	if mount == "" {
		mount = "/uploads"
	}

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())

	requireToken := middleware.BearerAuth(deps.Signer)

	api := app.Group("/api")
	api.Post("/addschool", requireToken, AddSchool(deps.Schools))
	api.Get("/showschool", ShowSchools(deps.Schools))
	api.Post("/contact", requireToken, AddContact(deps.Contacts))

	app.Get(mount+"/:filename", ServeImage(deps.Schools))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the database.
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "Service unavailable")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "Service unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// AddSchool godoc
// @Summary Add a school
// @Description Validates the form, stores the image and inserts the record.
// @Tags schools
// @Accept mpfd
// @Produce json
// @Param name formData string true "School name"
// @Param address formData string true "Address"
// @Param city formData string true "City"
// @Param state formData string true "State"
// @Param contact formData string true "10-digit mobile number"
// @Param email_id formData string true "Email"
// @Param image formData file true "JPEG, PNG or GIF up to 5MB"
// @Security BearerAuth
// @Success 201 {object} AddSchoolResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/addschool [post]
func AddSchool(svc service.SchoolService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := validation.SchoolInput{
			Name:    c.FormValue("name"),
			Address: c.FormValue("address"),
			City:    c.FormValue("city"),
			State:   c.FormValue("state"),
			Contact: c.FormValue("contact"),
			EmailID: c.FormValue("email_id"),
		}

		var img *service.ImageUpload
		if fh, err := c.FormFile("image"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, validation.MsgImageMissing)
			}
			defer f.Close()
			img = imageUpload(fh, f)
		}

		school, err := svc.Create(c.UserContext(), in, img)
		if err != nil {
			if validation.IsValidationError(err) {
				return writeError(c, fiber.StatusBadRequest, err.Error())
			}
			logFailure(c, "add_school_failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgAddFailed)
		}

		return c.Status(fiber.StatusCreated).JSON(AddSchoolResponse{
			Message: msgSchoolAdded,
			Data:    school,
		})
	}
}

// ShowSchools godoc
// @Summary List schools
// @Tags schools
// @Produce json
// @Success 200 {object} ShowSchoolsResponse
// @Failure 500 {object} errorPayload
// @Router /api/showschool [get]
func ShowSchools(svc service.SchoolService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schools, err := svc.List(c.UserContext())
		if err != nil {
			logFailure(c, "list_schools_failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgFetchFailed)
		}
		if schools == nil {
			schools = []model.School{}
		}
		return c.JSON(ShowSchoolsResponse{Schools: schools})
	}
}

// ServeImage godoc
// @Summary Fetch a stored school image
// @Tags schools
// @Produce image/jpeg,image/png,image/gif
// @Param filename path string true "Stored image name"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /uploads/{filename} [get]
func ServeImage(svc service.SchoolService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.OpenImage(c.UserContext(), c.Params("filename"))
		switch {
		case errors.Is(err, service.ErrInvalidImage):
			return writeError(c, fiber.StatusBadRequest, "Invalid image name")
		case errors.Is(err, service.ErrImageNotFound):
			return writeError(c, fiber.StatusNotFound, "Image not found")
		case err != nil:
			logFailure(c, "serve_image_failed", err)
			return writeError(c, fiber.StatusInternalServerError, "Failed to load image")
		}

		ct := info.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")

		// fasthttp closes rc once the body has been written.
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}

// AddContact godoc
// @Summary Send a contact message
// @Tags contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body ContactRequest true "Contact message"
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/contact [post]
func AddContact(svc service.ContactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ContactRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, validation.MsgContactForm)
		}

		if _, err := svc.Submit(c.UserContext(), req.Name, req.Email, req.Message); err != nil {
			if validation.IsValidationError(err) {
				return writeError(c, fiber.StatusBadRequest, err.Error())
			}
			logFailure(c, "add_contact_failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgContactFailed)
		}
		return c.JSON(MessageResponse{Message: msgContactSent})
	}
}

func imageUpload(fh *multipart.FileHeader, f multipart.File) *service.ImageUpload {
	return &service.ImageUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}
}

func logFailure(c *fiber.Ctx, event string, err error) {
	l := logger.Component("http")
	l.Error().
		Err(err).
		Str("request_id", requestIDFromCtx(c)).
		Str("path", c.Path()).
		Msg(event)
}
