package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment references one patient in the same tenant. The slot
// (tenant, patient, branch, start) is unique at the store level.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	BranchID  uuid.UUID `db:"branch_id" json:"branch_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	TenantID  uuid.UUID `json:"tenant_id" binding:"required"`
	BranchID  uuid.UUID `json:"branch_id" binding:"required"`
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	StartAt   time.Time `json:"start_at" binding:"required"`
}

// AppointmentCreatedEvent is the payload published once per successful
// appointment creation, routing key "appointments.created".
type AppointmentCreatedEvent struct {
	EventName string    `json:"eventName"`
	TenantID  uuid.UUID `json:"tenantId"`
	BranchID  uuid.UUID `json:"branchId"`
	PatientID uuid.UUID `json:"patientId"`
	StartAt   time.Time `json:"startAt"`
	CreatedAt time.Time `json:"createdAt"`
	ID        uuid.UUID `json:"id"`
}

const AppointmentCreatedEventName = "appointment.created"

// AppointmentsCreatedChannel is the topic appointment creations are
// published on.
const AppointmentsCreatedChannel = "appointments.created"

func NewAppointmentCreatedEvent(apt *Appointment) AppointmentCreatedEvent {
	return AppointmentCreatedEvent{
		EventName: AppointmentCreatedEventName,
		TenantID:  apt.TenantID,
		BranchID:  apt.BranchID,
		PatientID: apt.PatientID,
		StartAt:   apt.StartAt,
		CreatedAt: apt.CreatedAt,
		ID:        apt.ID,
	}
}
