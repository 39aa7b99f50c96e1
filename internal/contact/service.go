// Package contact accepts contact form submissions and serves them to the admin.
package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pcbuilderguide/pcbg/internal/apperr"
	"github.com/pcbuilderguide/pcbg/internal/auth"
	"github.com/pcbuilderguide/pcbg/internal/metrics"
	"github.com/pcbuilderguide/pcbg/internal/models"
	"github.com/pcbuilderguide/pcbg/internal/validation"
)

// MessageStore is the part of the credential store holding contact messages.
type MessageStore interface {
	Create(ctx context.Context, in models.NewContactMessage) (*models.ContactMessage, error)
	List(ctx context.Context) ([]models.ContactMessage, error)
}

// SubmitInput mirrors the contact form. The oneof lists match models.ContactSubjects
// and models.BuildPurposes.
type SubmitInput struct {
	Name         string   `json:"name" validate:"required,min=2"`
	Email        string   `json:"email" validate:"required,email"`
	Subject      string   `json:"subject" validate:"required,oneof=build-review component-question compatibility suggestions other"`
	Message      string   `json:"message" validate:"required,min=10"`
	BuildPurpose []string `json:"buildPurpose" validate:"required,min=1,dive,oneof=gaming work content-creation streaming general other"`
}

type Service struct {
	store MessageStore
}

func NewService(store MessageStore) *Service {
	return &Service{store: store}
}

// Submit validates and stores a message.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.ContactMessage, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	msg, err := s.store.Create(ctx, models.NewContactMessage{
		Name:         in.Name,
		Email:        in.Email,
		Subject:      in.Subject,
		Message:      in.Message,
		BuildPurpose: in.BuildPurpose,
	})
	if err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	metrics.IncContactSubmitted()
	slog.InfoContext(ctx, "contact message received", "id", msg.ID, "subject", msg.Subject)
	return msg, nil
}

// List returns every stored message in insertion order. Only the admin identity may call it.
func (s *Service) List(ctx context.Context, caller auth.Identity) ([]models.ContactMessage, error) {
	if !caller.IsAdmin() {
		slog.WarnContext(ctx, "contact messages denied", "username", caller.Username)
		return nil, apperr.ErrForbidden
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	if list == nil {
		list = []models.ContactMessage{}
	}
	return list, nil
}
