package service

import (
	"context"
	"fmt"
	"log"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// ContactService handles contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) (*model.ContactMessage, error)
	List(ctx context.Context) ([]model.ContactMessage, error)
}

type contactService struct {
	repo repository.ContactRepository
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

// Submit stores a contact message.
func (s *contactService) Submit(ctx context.Context, name, email, message string) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	log.Printf("contact: new message from %s <%s>", name, email)
	return msg, nil
}

// List returns all contact messages, newest first.
func (s *contactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	return s.repo.List(ctx)
}
