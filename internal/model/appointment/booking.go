package appointment

import "time"

// Booking is a confirmed appointment written once the intake script completes.
type Booking struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SessionID     string    `json:"sessionId" gorm:"size:64;uniqueIndex"`
	Name          string    `json:"name"`
	Age           string    `json:"age"`
	Problem       string    `json:"problem"`
	PreferredTime string    `json:"preferredTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewBooking copies the intake record into a Booking row.
func NewBooking(sessionID string, data Data) Booking {
	return Booking{
		SessionID:     sessionID,
		Name:          data.Name,
		Age:           data.Age,
		Problem:       data.Problem,
		PreferredTime: data.PreferredTime,
	}
}
