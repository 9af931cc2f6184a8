package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumivian/receptionist/backend/internal/model/appointment"
)

var ErrIncomplete = errors.New("appointment is incomplete")

// Service is the clinic's appointment book.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record writes a confirmed appointment. A session is booked at most once.
func (s *Service) Record(ctx context.Context, sessionID string, data appointment.Data) error {
	if !data.Complete() {
		return ErrIncomplete
	}

	if _, err := s.repo.GetBySessionID(ctx, sessionID); err == nil {
		return nil
	} else if !errors.Is(err, ErrBookingNotFound) {
		return fmt.Errorf("lookup booking: %w", err)
	}

	b := appointment.NewBooking(sessionID, data)
	if err := s.repo.Create(ctx, &b); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// List returns recent bookings.
func (s *Service) List(ctx context.Context, limit int) ([]appointment.Booking, error) {
	return s.repo.List(ctx, limit)
}
