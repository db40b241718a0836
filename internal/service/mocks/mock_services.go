package mocks

import (
	"context"
	"io"

	"schoolapi/internal/model"
	"schoolapi/internal/service"
	"schoolapi/internal/storage"
	"schoolapi/internal/validation"

	"github.com/stretchr/testify/mock"
)

type MockSchoolService struct {
	mock.Mock
}

var _ service.SchoolService = (*MockSchoolService)(nil)

func (m *MockSchoolService) Create(ctx context.Context, in validation.SchoolInput, img *service.ImageUpload) (*model.School, error) {
	args := m.Called(ctx, in, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.School), args.Error(1)
}

func (m *MockSchoolService) List(ctx context.Context) ([]model.School, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.School), args.Error(1)
}

func (m *MockSchoolService) OpenImage(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type MockContactService struct {
	mock.Mock
}

var _ service.ContactService = (*MockContactService)(nil)

func (m *MockContactService) Submit(ctx context.Context, name, email, message string) (*model.Contact, error) {
	args := m.Called(ctx, name, email, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}
