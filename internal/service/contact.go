package service

import (
	"context"
	"fmt"
	"strings"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
	"schoolapi/internal/validation"
)

type ContactService interface {
	Submit(ctx context.Context, name, email, message string) (*model.Contact, error)
}

type contactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) Submit(ctx context.Context, name, email, message string) (*model.Contact, error) {
	if err := validation.ValidateContactMessage(name, email, message).Err(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, &model.Contact{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	})
	if err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return c, nil
}
