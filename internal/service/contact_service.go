package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/google/uuid"
)

type ContactService interface {
	Submit(ctx context.Context, name, subject, description string) (*domain.Contact, error)
	List(ctx context.Context) ([]*domain.Contact, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new instance of ContactService
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Submit(ctx context.Context, name, subject, description string) (*domain.Contact, error) {
	contact := &domain.Contact{
		ID:          uuid.New(),
		Name:        name,
		Subject:     subject,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context) ([]*domain.Contact, error) {
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}
