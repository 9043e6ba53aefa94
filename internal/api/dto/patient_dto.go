package dto

import (
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// VitalSignsRequest carries triage measurements.
type VitalSignsRequest struct {
	HeartRate          int      `json:"heart_rate" validate:"required"`
	BloodPressure      string   `json:"blood_pressure" validate:"required"`
	Temperature        float64  `json:"temperature" validate:"required"`
	OxygenSaturation   int      `json:"oxygen_saturation" validate:"required"`
	RespiratoryRate    int      `json:"respiratory_rate" validate:"required"`
	ConsciousnessLevel *string  `json:"consciousness_level,omitempty"`
	PainLevel          *int     `json:"pain_level,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// RegisterPatientRequest payload.
type RegisterPatientRequest struct {
	Name     string            `json:"name" validate:"required,min=2"`
	Age      int               `json:"age" validate:"gte=0,lte=150"`
	Gender   string            `json:"gender" validate:"required,oneof=male female other"`
	Symptoms []string          `json:"symptoms" validate:"required,min=1"`
	Vitals   VitalSignsRequest `json:"vitals" validate:"required"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetProcessRequest payload.
type SetProcessRequest struct {
	Process string `json:"process" validate:"required"`
	Details string `json:"details"`
}

// SetPriorityRequest payload.
type SetPriorityRequest struct {
	Priority int    `json:"priority" validate:"required,gte=1,lte=5"`
	Reason   string `json:"reason"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=5"`
	Type    string `json:"type" validate:"required"`
}

// AssignDoctorRequest payload.
type AssignDoctorRequest struct {
	DoctorID string `json:"doctor_id" validate:"required"`
}

// PatientResponse represents a patient on the triage board.
type PatientResponse struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Age                int                `json:"age"`
	Gender             string             `json:"gender"`
	Symptoms           []string           `json:"symptoms"`
	Vitals             domain.VitalSigns  `json:"vitals"`
	Priority           string             `json:"priority"`
	ManualPriority     *string            `json:"manual_priority,omitempty"`
	Status             string             `json:"status"`
	Process            string             `json:"process"`
	ProcessDetails     string             `json:"process_details,omitempty"`
	AssignedDoctorID   string             `json:"assigned_doctor_id,omitempty"`
	AssignedDoctorName string             `json:"assigned_doctor_name,omitempty"`
	AssignedNurseID    string             `json:"assigned_nurse_id,omitempty"`
	Comments           []CommentResponse  `json:"comments,omitempty"`
	ArrivalTime        time.Time          `json:"arrival_time"`
	TreatmentStartTime *time.Time         `json:"treatment_start_time,omitempty"`
	DischargeTime      *time.Time         `json:"discharge_time,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// CommentResponse represents a clinical note.
type CommentResponse struct {
	ID         string     `json:"id"`
	PatientID  string     `json:"patient_id"`
	AuthorID   string     `json:"author_id"`
	AuthorName string     `json:"author_name"`
	AuthorRole string     `json:"author_role"`
	Content    string     `json:"content"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"created_at"`
	IsEdited   bool       `json:"is_edited"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

// ToVitals converts the request shape into the domain value.
func (r VitalSignsRequest) ToVitals() domain.VitalSigns {
	vitals := domain.VitalSigns{
		HeartRate:        r.HeartRate,
		BloodPressure:    r.BloodPressure,
		Temperature:      r.Temperature,
		OxygenSaturation: r.OxygenSaturation,
		RespiratoryRate:  r.RespiratoryRate,
		PainLevel:        r.PainLevel,
	}
	if r.ConsciousnessLevel != nil {
		level := domain.ConsciousnessLevel(*r.ConsciousnessLevel)
		vitals.ConsciousnessLevel = &level
	}
	return vitals
}

// FromPatient maps the aggregate into the response shape.
func FromPatient(p *domain.Patient) PatientResponse {
	resp := PatientResponse{
		ID:                 p.ID(),
		Name:               p.Name(),
		Age:                p.Age(),
		Gender:             string(p.Gender()),
		Symptoms:           p.Symptoms(),
		Vitals:             p.Vitals(),
		Priority:           p.Priority().String(),
		Status:             string(p.Status()),
		Process:            string(p.Process()),
		ProcessDetails:     p.ProcessDetails(),
		AssignedDoctorID:   p.AssignedDoctorID(),
		AssignedDoctorName: p.AssignedDoctorName(),
		AssignedNurseID:    p.AssignedNurseID(),
		ArrivalTime:        p.ArrivalTime(),
		TreatmentStartTime: p.TreatmentStartTime(),
		DischargeTime:      p.DischargeTime(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
	if manual := p.ManualPriority(); manual != nil {
		s := manual.String()
		resp.ManualPriority = &s
	}
	for _, comment := range p.Comments() {
		resp.Comments = append(resp.Comments, FromComment(comment))
	}
	return resp
}

// FromComment maps a clinical note into the response shape.
func FromComment(c domain.PatientComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PatientID:  c.PatientID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		AuthorRole: string(c.AuthorRole),
		Content:    c.Content,
		Type:       string(c.Type),
		CreatedAt:  c.CreatedAt,
		IsEdited:   c.IsEdited,
		EditedAt:   c.EditedAt,
	}
}
