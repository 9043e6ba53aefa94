package domain

import "time"

// AuditRecord is an append-only trail entry written for every triage
// event. Details holds the originating event serialized as JSON.
type AuditRecord struct {
	ID        string
	UserID    string
	Action    string
	PatientID string
	Details   string
	Timestamp time.Time
}

// VitalsRecord is a historical vitals measurement kept per patient so
// trends survive in-place updates on the aggregate.
type VitalsRecord struct {
	ID         string
	PatientID  string
	Vitals     VitalSigns
	RecordedBy string
	RecordedAt time.Time
}
