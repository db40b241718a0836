package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"schoolapi/internal/auth"
	"schoolapi/internal/model"
	"schoolapi/internal/service"
	serviceMocks "schoolapi/internal/service/mocks"
	"schoolapi/internal/storage"
	"schoolapi/internal/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validFields = map[string]string{
	"name":     "Green Valley School",
	"address":  "12 MG Road, Sector 4",
	"city":     "Pune",
	"state":    "Maharashtra",
	"contact":  "9876543210",
	"email_id": "info@gv.edu",
}

func schoolForm(t *testing.T, fields map[string]string, imageType string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, k := range []string{"name", "address", "city", "state", "contact", "email_id"} {
		if v, ok := fields[k]; ok {
			require.NoError(t, writer.WriteField(k, v))
		}
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="logo.png"`)
		h.Set("Content-Type", imageType)
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Service unavailable", body.Error)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddSchool(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchoolService)
	app := fiber.New()
	app.Post("/api/addschool", AddSchool(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := schoolForm(t, validFields, "image/png", []byte("png-bytes"))

		wantIn := validation.SchoolInput{
			Name: "Green Valley School", Address: "12 MG Road, Sector 4", City: "Pune",
			State: "Maharashtra", Contact: "9876543210", EmailID: "info@gv.edu",
		}
		created := &model.School{ID: 1, Name: wantIn.Name, Image: "/uploads/abc.png"}
		mockSvc.On("Create", mock.Anything, wantIn, mock.MatchedBy(func(img *service.ImageUpload) bool {
			return img != nil && img.ContentType == "image/png" && img.Size == 9 && img.Filename == "logo.png"
		})).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/addschool", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result AddSchoolResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "School added successfully!", result.Message)
		require.NotNil(t, result.Data)
		assert.Equal(t, int64(1), result.Data.ID)
		assert.Equal(t, "/uploads/abc.png", result.Data.Image)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing image is passed as nil", func(t *testing.T) {
		body, ct := schoolForm(t, validFields, "", nil)

		verr := validation.Violations{validation.MsgImageMissing}.Err()
		mockSvc.On("Create", mock.Anything, mock.Anything, (*service.ImageUpload)(nil)).Return(nil, verr).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/addschool", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, validation.MsgImageMissing, res.Error)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation error lists every violation", func(t *testing.T) {
		body, ct := schoolForm(t, map[string]string{"name": "A"}, "image/png", []byte("x"))

		verr := validation.Violations{validation.MsgName, validation.MsgAddress}.Err()
		mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, verr).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/addschool", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, validation.MsgName+". "+validation.MsgAddress, res.Error)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := schoolForm(t, validFields, "image/png", []byte("x"))

		mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db save failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/addschool", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Failed to add school", res.Error)
		mockSvc.AssertExpectations(t)
	})
}

func TestShowSchools(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchoolService)
	app := fiber.New()
	app.Get("/api/showschool", ShowSchools(mockSvc))

	t.Run("success", func(t *testing.T) {
		schools := []model.School{
			{ID: 1, Name: "A School", Image: "/uploads/a.png"},
			{ID: 2, Name: "B School", Image: "/uploads/b.gif"},
		}
		mockSvc.On("List", mock.Anything).Return(schools, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/showschool", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result ShowSchoolsResponse
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result.Schools, 2)
		assert.Equal(t, int64(1), result.Schools[0].ID)
		assert.Equal(t, "/uploads/b.gif", result.Schools[1].Image)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty store returns empty array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.School(nil), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/showschool", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"schools":[]}`, string(raw))
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("query failed")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/showschool", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Failed to fetch schools", res.Error)
		mockSvc.AssertExpectations(t)
	})
}

func TestServeImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockSchoolService)
	app := fiber.New()
	app.Get("/uploads/:filename", ServeImage(mockSvc))

	t.Run("success", func(t *testing.T) {
		info := storage.ObjectInfo{Key: "abc.png", Size: 4, ContentType: "image/png"}
		mockSvc.On("OpenImage", mock.Anything, "abc.png").
			Return(io.NopCloser(strings.NewReader("\x89PNG")), info, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/abc.png", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "\x89PNG", string(raw))
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("OpenImage", mock.Anything, "missing.png").
			Return(nil, storage.ObjectInfo{}, service.ErrImageNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid name", func(t *testing.T) {
		mockSvc.On("OpenImage", mock.Anything, "bad%5Cname").
			Return(nil, storage.ObjectInfo{}, service.ErrInvalidImage).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/bad%5Cname", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestAddContact(t *testing.T) {
	mockSvc := new(serviceMocks.MockContactService)
	app := fiber.New()
	app.Post("/api/contact", AddContact(mockSvc))

	post := func(payload string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, "Asha", "asha@example.com", "Hello there").
			Return(&model.Contact{ID: 1}, nil).Once()

		resp := post(`{"name":"Asha","email":"asha@example.com","message":"Hello there"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res MessageResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Message sent successfully!", res.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, "Asha", "", "").
			Return(nil, validation.Violations{validation.MsgContactForm}.Err()).Once()

		resp := post(`{"name":"Asha"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "All fields are required", res.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := post(`{not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, "Asha", "asha@example.com", "Hi").
			Return(nil, errors.New("insert failed")).Once()

		resp := post(`{"name":"Asha","email":"asha@example.com","message":"Hi"}`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	schools := new(serviceMocks.MockSchoolService)
	contacts := new(serviceMocks.MockContactService)
	signer := auth.NewSigner("test-secret", "schoolapi")
	RegisterRoutes(app, Deps{Schools: schools, Contacts: contacts, Signer: signer})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Resource not found", res.Error)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Method not allowed", res.Error)
	})

	t.Run("health without database", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("write route requires token", func(t *testing.T) {
		body, ct := schoolForm(t, validFields, "image/png", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/addschool", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Unauthorized", res.Error)
		schools.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write route with token", func(t *testing.T) {
		tok, err := signer.Issue("operator", time.Minute)
		require.NoError(t, err)

		schools.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(&model.School{ID: 7}, nil).Once()

		body, ct := schoolForm(t, validFields, "image/png", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/addschool", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		schools.AssertExpectations(t)
	})

	t.Run("listing stays public", func(t *testing.T) {
		schools.On("List", mock.Anything).Return([]model.School{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/showschool", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
