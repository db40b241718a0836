package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"schoolapi/internal/model"
	repoMocks "schoolapi/internal/repository/mocks"
	"schoolapi/internal/storage"
	storeMocks "schoolapi/internal/storage/mocks"
	"schoolapi/internal/validation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validInput() validation.SchoolInput {
	return validation.SchoolInput{
		Name:    "Green Valley School",
		Address: "12 Park Street, Sector 5",
		City:    "Pune",
		State:   "Maharashtra",
		Contact: "9876543210",
		EmailID: "a@b.com",
	}
}

func pngUpload(size int) *ImageUpload {
	return &ImageUpload{
		Reader:      bytes.NewReader(make([]byte, size)),
		Filename:    "campus.png",
		ContentType: "image/png",
		Size:        int64(size),
	}
}

func TestSchoolService_Create(t *testing.T) {
	ctx := context.Background()
	urls := ImageURLs{Mount: "/uploads"}

	tests := []struct {
		name       string
		input      validation.SchoolInput
		upload     *ImageUpload
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSchoolRepository)
		wantErrMsg string
		wantValErr bool
		check      func(t *testing.T, s *model.School)
	}{
		{
			name:   "happy path",
			input:  validInput(),
			upload: pngUpload(1 << 20),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSchoolRepository) {
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, ".png") && len(key) == 36+4
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == 1<<20 && opt.ContentType == "image/png" &&
						opt.Metadata["original-filename"] == "campus.png"
				})).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: opt.Size}
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(s *model.School) bool {
					return s.Name == "Green Valley School" && strings.HasSuffix(s.Image, ".png")
				})).Return(func(ctx context.Context, s *model.School) *model.School {
					out := *s
					out.ID = 1
					return &out
				}, nil)
			},
			check: func(t *testing.T, s *model.School) {
				assert.Equal(t, int64(1), s.ID)
				assert.True(t, strings.HasPrefix(s.Image, "/uploads/"))
				assert.True(t, strings.HasSuffix(s.Image, ".png"))
			},
		},
		{
			name: "trims values before storing",
			input: validation.SchoolInput{
				Name: "  Green Valley  ", Address: " 12 Park Street, Sector 5 ", City: " Pune ",
				State: " MH ", Contact: " 9876543210 ", EmailID: " a@b.com ",
			},
			upload: pngUpload(10),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSchoolRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "k.png"}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(s *model.School) bool {
					return s.Name == "Green Valley" && s.Contact == "9876543210" && s.EmailID == "a@b.com"
				})).Return(&model.School{ID: 2, Image: "k.png"}, nil)
			},
			check: func(t *testing.T, s *model.School) {
				assert.Equal(t, "/uploads/k.png", s.Image)
			},
		},
		{
			name:       "field violations are aggregated",
			input:      validation.SchoolInput{Name: "A", Address: "short", City: "Pune", State: "MH", Contact: "1234567890", EmailID: "not-an-email"},
			upload:     pngUpload(10),
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockSchoolRepository) {},
			wantValErr: true,
			wantErrMsg: validation.MsgName + ". " + validation.MsgAddress + ". " + validation.MsgContact + ". " + validation.MsgEmail,
		},
		{
			name:       "missing image",
			input:      validInput(),
			upload:     nil,
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockSchoolRepository) {},
			wantValErr: true,
			wantErrMsg: validation.MsgImageMissing,
		},
		{
			name:  "wrong content type",
			input: validInput(),
			upload: &ImageUpload{
				Reader: strings.NewReader("%PDF"), Filename: "x.pdf", ContentType: "application/pdf", Size: 4,
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockSchoolRepository) {},
			wantValErr: true,
			wantErrMsg: validation.MsgImageType,
		},
		{
			name:  "oversize jpeg",
			input: validInput(),
			upload: &ImageUpload{
				Reader: bytes.NewReader(make([]byte, 6<<20)), Filename: "big.jpg", ContentType: "image/jpeg", Size: 6 << 20,
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockSchoolRepository) {},
			wantValErr: true,
			wantErrMsg: validation.MsgImageSize,
		},
		{
			name:   "storage error",
			input:  validInput(),
			upload: pngUpload(5),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSchoolRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("disk full"))
			},
			wantErrMsg: "upload to storage: disk full",
		},
		{
			name:   "repository error with successful rollback",
			input:  validInput(),
			upload: pngUpload(5),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSchoolRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "k.png"}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, "k.png").Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:   "repository error with failed rollback",
			input:  validInput(),
			upload: pngUpload(5),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSchoolRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "k.png"}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, "k.png").Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockSchoolRepository)
			tt.setupMocks(mStore, mRepo)
			svc := NewSchoolService(mStore, mRepo, urls)

			got, err := svc.Create(ctx, tt.input, tt.upload)

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Equal(t, tt.wantValErr, validation.IsValidationError(err))
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				tt.check(t, got)
			}
			if tt.wantValErr {
				mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestSchoolService_Create_LogsFailedRollback(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockSchoolRepository)
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "orphan.png"}, nil)
	mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
	mStore.On("Delete", ctx, "orphan.png").Return(errors.New("delete fail"))

	_, err := NewSchoolService(mStore, mRepo, ImageURLs{Mount: "/uploads"}).Create(ctx, validInput(), pngUpload(5))
	require.Error(t, err)

	logged := buf.String()
	assert.Contains(t, logged, `"level":"error"`)
	assert.Contains(t, logged, `"component":"service"`)
	assert.Contains(t, logged, `"key":"orphan.png"`)
	assert.Contains(t, logged, "rollback delete failed")
}

func TestSchoolService_CreateTwiceYieldsDistinctRecords(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockSchoolRepository)

	var keys []string
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			keys = append(keys, key)
			return storage.ObjectInfo{Key: key}
		}, nil)
	var next int64
	mRepo.On("Create", ctx, mock.Anything).
		Return(func(ctx context.Context, s *model.School) *model.School {
			next++
			out := *s
			out.ID = next
			return &out
		}, nil)

	svc := NewSchoolService(mStore, mRepo, ImageURLs{})
	first, err := svc.Create(ctx, validInput(), pngUpload(8))
	require.NoError(t, err)
	second, err := svc.Create(ctx, validInput(), pngUpload(8))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestSchoolService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites image keys", func(t *testing.T) {
		mRepo := new(repoMocks.MockSchoolRepository)
		mRepo.On("List", ctx).Return([]model.School{
			{ID: 1, Name: "Alpha", Image: "a.png"},
			{ID: 2, Name: "Beta", Image: "b.jpg"},
		}, nil)

		svc := NewSchoolService(new(storeMocks.MockStorage), mRepo, ImageURLs{BaseURL: "http://localhost:5000/", Mount: "/uploads"})
		got, err := svc.List(ctx)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "http://localhost:5000/uploads/a.png", got[0].Image)
		assert.Equal(t, "http://localhost:5000/uploads/b.jpg", got[1].Image)
	})

	t.Run("empty", func(t *testing.T) {
		mRepo := new(repoMocks.MockSchoolRepository)
		mRepo.On("List", ctx).Return([]model.School{}, nil)

		got, err := NewSchoolService(nil, mRepo, ImageURLs{}).List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockSchoolRepository)
		mRepo.On("List", ctx).Return(nil, errors.New("db down"))

		_, err := NewSchoolService(nil, mRepo, ImageURLs{}).List(ctx)
		assert.ErrorContains(t, err, "list schools: db down")
	})
}

func TestSchoolService_OpenImage(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "a.png").
			Return(io.NopCloser(strings.NewReader("png")), storage.ObjectInfo{Key: "a.png", ContentType: "image/png"}, nil)

		rc, info, err := NewSchoolService(mStore, nil, ImageURLs{}).OpenImage(ctx, "a.png")
		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, "image/png", info.ContentType)
	})

	t.Run("not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "x.png").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		_, _, err := NewSchoolService(mStore, nil, ImageURLs{}).OpenImage(ctx, "x.png")
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("invalid key", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "..").Return(nil, storage.ObjectInfo{}, storage.ErrInvalidKey)

		_, _, err := NewSchoolService(mStore, nil, ImageURLs{}).OpenImage(ctx, "..")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestImageURLs(t *testing.T) {
	assert.Equal(t, "/uploads/a.png", ImageURLs{}.URL("a.png"))
	assert.Equal(t, "/static/img/a.png", ImageURLs{Mount: "static/img/"}.URL("a.png"))
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", ImageURLs{BaseURL: "https://cdn.example.com", Mount: "/uploads"}.URL("a.png"))
}
