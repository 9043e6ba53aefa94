package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/triage-service/internal/domain"
)

// EventType enumerates the closed set of triage domain events.
type EventType string

const (
	EventPatientRegistered      EventType = "PATIENT_REGISTERED"
	EventPatientPriorityChanged EventType = "PATIENT_PRIORITY_CHANGED"
	EventCaseAssigned           EventType = "CASE_ASSIGNED"
	EventPatientDischarged      EventType = "PATIENT_DISCHARGED"
	EventCaseReassigned         EventType = "CASE_REASSIGNED"
	EventCriticalVitalsDetected EventType = "CRITICAL_VITALS_DETECTED"
)

// SystemActor is the actor recorded when no human triggered the event.
const SystemActor = "SYSTEM"

// Event is an immutable record of something that happened in triage.
// Field names are part of the wire contract for downstream consumers and
// must not change.
type Event struct {
	ID         string    `json:"eventId"`
	Type       EventType `json:"eventType"`
	PatientID  string    `json:"patientId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// PatientRegisteredPayload accompanies EventPatientRegistered.
type PatientRegisteredPayload struct {
	PatientName  string          `json:"patientName"`
	Priority     domain.Priority `json:"priority"`
	RegisteredBy string          `json:"registeredBy"`
}

// PriorityChangedPayload accompanies EventPatientPriorityChanged. Lower
// numeric value means more severe.
type PriorityChangedPayload struct {
	OldPriority domain.Priority `json:"oldPriority"`
	NewPriority domain.Priority `json:"newPriority"`
	ChangedBy   string          `json:"changedBy"`
	Reason      string          `json:"reason,omitempty"`
}

// CaseAssignedPayload accompanies EventCaseAssigned.
type CaseAssignedPayload struct {
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	AssignedBy string `json:"assignedBy"`
}

// CaseReassignedPayload accompanies EventCaseReassigned.
type CaseReassignedPayload struct {
	PreviousDoctorID string `json:"previousDoctorId"`
	NewDoctorID      string `json:"newDoctorId"`
	NewDoctorName    string `json:"newDoctorName"`
	ReassignedBy     string `json:"reassignedBy"`
}

// PatientDischargedPayload accompanies EventPatientDischarged.
type PatientDischargedPayload struct {
	Process      domain.ProcessType `json:"process"`
	DischargedBy string             `json:"dischargedBy"`
}

// CriticalVitalsPayload accompanies EventCriticalVitalsDetected.
type CriticalVitalsPayload struct {
	Vitals   domain.VitalSigns `json:"vitals"`
	Priority domain.Priority   `json:"priority"`
}

func newEvent(eventType EventType, patientID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		PatientID:  patientID,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}

// NewPatientRegistered builds the registration event.
func NewPatientRegistered(patientID, patientName string, priority domain.Priority, registeredBy string) Event {
	if registeredBy == "" {
		registeredBy = SystemActor
	}
	return newEvent(EventPatientRegistered, patientID, PatientRegisteredPayload{
		PatientName:  patientName,
		Priority:     priority,
		RegisteredBy: registeredBy,
	})
}

// NewPriorityChanged builds the priority change event.
func NewPriorityChanged(patientID string, oldPriority, newPriority domain.Priority, changedBy, reason string) Event {
	if changedBy == "" {
		changedBy = SystemActor
	}
	return newEvent(EventPatientPriorityChanged, patientID, PriorityChangedPayload{
		OldPriority: oldPriority,
		NewPriority: newPriority,
		ChangedBy:   changedBy,
		Reason:      reason,
	})
}

// NewCaseAssigned builds the first-assignment event.
func NewCaseAssigned(patientID, doctorID, doctorName, assignedBy string) Event {
	if assignedBy == "" {
		assignedBy = SystemActor
	}
	return newEvent(EventCaseAssigned, patientID, CaseAssignedPayload{
		DoctorID:   doctorID,
		DoctorName: doctorName,
		AssignedBy: assignedBy,
	})
}

// NewCaseReassigned builds the reassignment event.
func NewCaseReassigned(patientID, previousDoctorID, newDoctorID, newDoctorName, reassignedBy string) Event {
	if reassignedBy == "" {
		reassignedBy = SystemActor
	}
	return newEvent(EventCaseReassigned, patientID, CaseReassignedPayload{
		PreviousDoctorID: previousDoctorID,
		NewDoctorID:      newDoctorID,
		NewDoctorName:    newDoctorName,
		ReassignedBy:     reassignedBy,
	})
}

// NewPatientDischarged builds the discharge event.
func NewPatientDischarged(patientID string, process domain.ProcessType, dischargedBy string) Event {
	if dischargedBy == "" {
		dischargedBy = SystemActor
	}
	return newEvent(EventPatientDischarged, patientID, PatientDischargedPayload{
		Process:      process,
		DischargedBy: dischargedBy,
	})
}

// NewCriticalVitalsDetected builds the critical vitals alert event.
func NewCriticalVitalsDetected(patientID string, vitals domain.VitalSigns, priority domain.Priority) Event {
	return newEvent(EventCriticalVitalsDetected, patientID, CriticalVitalsPayload{
		Vitals:   vitals,
		Priority: priority,
	})
}
