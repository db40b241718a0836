package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"schoolapi/internal/logger"
	"schoolapi/internal/model"
	"schoolapi/internal/repository"
	"schoolapi/internal/storage"
	"schoolapi/internal/validation"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidImage  = errors.New("invalid image name")
)

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageUpload is an image received with a submission. Reader is nil when no file was sent.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// SchoolService defines the use cases for school records.
type SchoolService interface {
	// Create validates the submission, stores the image, then inserts the row.
	// Validation failures are returned as *validation.Error.
	Create(ctx context.Context, in validation.SchoolInput, img *ImageUpload) (*model.School, error)

	// List returns all schools with image keys rewritten to URLs.
	List(ctx context.Context) ([]model.School, error)

	// OpenImage streams a stored image by its key.
	OpenImage(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
}

// ImageURLs rewrites stored image keys into fetchable URLs.
// BaseURL may be empty, which yields root-relative paths such as /uploads/<key>.
type ImageURLs struct {
	BaseURL string
	Mount   string
}

// URL returns the public URL for key.
func (u ImageURLs) URL(key string) string {
	mount := u.Mount
	if mount == "" {
		mount = "/uploads"
	}
	p := path.Join("/", mount, url.PathEscape(key))
	return strings.TrimRight(u.BaseURL, "/") + p
}

type schoolService struct {
	store storage.Storage
	repo  repository.SchoolRepository
	urls  ImageURLs
}

// NewSchoolService constructs a new SchoolService.
func NewSchoolService(store storage.Storage, repo repository.SchoolRepository, urls ImageURLs) SchoolService {
	return &schoolService{store: store, repo: repo, urls: urls}
}

func (s *schoolService) Create(ctx context.Context, in validation.SchoolInput, img *ImageUpload) (*model.School, error) {
	in = validation.Normalize(in)
	hasImage := img != nil && img.Reader != nil

	if err := validation.ValidateSchool(in, hasImage).Err(); err != nil {
		return nil, err
	}
	if err := validation.ValidateImage(img.ContentType, img.Size); err != nil {
		return nil, err
	}

	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(img.ContentType, ";", 2)[0]))
	key := uuid.NewString() + extByType[ct]

	objInfo, err := s.store.Put(ctx, key, img.Reader, storage.PutObjectOptions{
		Size:        img.Size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": img.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.School{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		Contact: in.Contact,
		EmailID: in.EmailID,
		Image:   objInfo.Key,
	})
	if err != nil {
		// Rollback: a row-less image must not remain in the store.
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			l := logger.Component("service")
			l.Error().
				Err(delErr).
				Str("key", objInfo.Key).
				Msg("rollback delete failed")
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	out := *stored
	out.Image = s.urls.URL(stored.Image)
	return &out, nil
}

func (s *schoolService) List(ctx context.Context) ([]model.School, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	out := make([]model.School, len(items))
	for i, it := range items {
		it.Image = s.urls.URL(it.Image)
		out[i] = it
	}
	return out, nil
}

func (s *schoolService) OpenImage(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrInvalidKey):
		return nil, storage.ObjectInfo{}, ErrInvalidImage
	case errors.Is(err, storage.ErrNotFound):
		return nil, storage.ObjectInfo{}, ErrImageNotFound
	case err != nil:
		return nil, storage.ObjectInfo{}, fmt.Errorf("open image: %w", err)
	}
	return rc, info, nil
}
