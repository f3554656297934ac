package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/arogyahealth/arogya-go/internal/client/router"
)

// Vitals is one vitals reading taken at the bedside. Readings are the
// most common offline write: wards often have no coverage.
type Vitals struct {
	Temperature   float64 `json:"temperature,omitempty"`
	Pulse         int     `json:"pulse,omitempty"`
	SystolicBP    int     `json:"systolic_bp,omitempty"`
	DiastolicBP   int     `json:"diastolic_bp,omitempty"`
	RespiratoryRt int     `json:"respiratory_rate,omitempty"`
	SpO2          int     `json:"spo2,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	RecordedAt    string  `json:"recorded_at,omitempty"`
}

// AppointmentService covers appointment reads and vitals capture.
type AppointmentService interface {
	AddVitals(ctx context.Context, appointmentID string, v Vitals) (models.Result, error)
	GetVitals(ctx context.Context, appointmentID string) (json.RawMessage, bool, error)
	List(ctx context.Context) (json.RawMessage, bool, error)
	Get(ctx context.Context, appointmentID string) (json.RawMessage, bool, error)
}

type appointmentService struct {
	router *router.Router
}

// NewAppointmentService constructs an AppointmentService over the router.
func NewAppointmentService(r *router.Router) AppointmentService {
	return &appointmentService{router: r}
}

// AddVitals records a reading; offline it is queued and echoed back
// tagged pending so the chart can render immediately. The capture time is
// stamped here, not at replay, so a synced reading keeps the bedside time.
func (s *appointmentService) AddVitals(ctx context.Context, appointmentID string, v Vitals) (models.Result, error) {
	if v.RecordedAt == "" {
		v.RecordedAt = time.Now().UTC().Format(time.RFC3339)
	}
	endpoint := fmt.Sprintf("/appointments/%s/vitals", appointmentID)
	return s.router.PerformMutation(ctx, endpoint, models.MethodPost, v)
}

// GetVitals returns the readings for one appointment, cached under
// "appointment_vitals_<id>".
func (s *appointmentService) GetVitals(ctx context.Context, appointmentID string) (json.RawMessage, bool, error) {
	key := "appointment_vitals_" + appointmentID
	return s.router.PerformQuery(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/appointments/"+appointmentID+"/vitals", nil)
	})
}

// List returns the caller's appointments, cached under "appointments_list".
func (s *appointmentService) List(ctx context.Context) (json.RawMessage, bool, error) {
	return s.router.PerformQuery(ctx, "appointments_list", func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/appointments/", nil)
	})
}

// Get returns one appointment, cached under "appointment_detail_<id>".
func (s *appointmentService) Get(ctx context.Context, appointmentID string) (json.RawMessage, bool, error) {
	key := "appointment_detail_" + appointmentID
	return s.router.PerformQuery(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/appointments/"+appointmentID, nil)
	})
}
