package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lumivian/receptionist/backend/internal/model/appointment"
)

var ErrBookingNotFound = errors.New("booking not found")

// Repository reads and writes Booking rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *appointment.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) (*appointment.Booking, error) {
	var b appointment.Booking
	// Find rather than First: a miss is the normal case for a new session and must not log as an error.
	res := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Limit(1).Find(&b)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

// List returns the most recent bookings first.
func (r *Repository) List(ctx context.Context, limit int) ([]appointment.Booking, error) {
	var out []appointment.Booking
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
