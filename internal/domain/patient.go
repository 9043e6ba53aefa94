package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// PatientStatus enumerates triage lifecycle states. Any status may be set
// from any other; IN_PROGRESS is only ever entered through AssignDoctor
// and DISCHARGED stamps the discharge time exactly once.
type PatientStatus string

const (
	StatusWaiting        PatientStatus = "WAITING"
	StatusInProgress     PatientStatus = "IN_PROGRESS"
	StatusUnderTreatment PatientStatus = "UNDER_TREATMENT"
	StatusStabilized     PatientStatus = "STABILIZED"
	StatusDischarged     PatientStatus = "DISCHARGED"
	StatusTransferred    PatientStatus = "TRANSFERRED"
)

// ValidPatientStatus reports whether s is a known status value.
func ValidPatientStatus(s PatientStatus) bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusUnderTreatment, StatusStabilized, StatusDischarged, StatusTransferred:
		return true
	}
	return false
}

// ProcessType is the disposition decided for a patient.
type ProcessType string

const (
	ProcessNone                ProcessType = "NONE"
	ProcessDischarge           ProcessType = "DISCHARGE"
	ProcessHospitalization     ProcessType = "HOSPITALIZATION"
	ProcessHospitalizationDays ProcessType = "HOSPITALIZATION_DAYS"
	ProcessICU                 ProcessType = "ICU"
	ProcessReferral            ProcessType = "REFERRAL"
)

// Gender of a patient.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Patient is the triage aggregate. All mutation goes through methods so
// lifecycle invariants cannot be bypassed; slice-valued state is copied
// on the way out.
type Patient struct {
	id                 string
	name               string
	age                int
	gender             Gender
	symptoms           []string
	vitals             VitalSigns
	priority           Priority
	manualPriority     *Priority
	status             PatientStatus
	process            ProcessType
	processDetails     string
	assignedDoctorID   string
	assignedDoctorName string
	assignedNurseID    string
	comments           []PatientComment
	arrivalTime        time.Time
	treatmentStartTime *time.Time
	dischargeTime      *time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

// NewPatient registers a patient. Status is forced to WAITING, the comment
// list starts empty and the automatic priority is computed from vitals.
func NewPatient(name string, age int, gender Gender, symptoms []string, vitals VitalSigns) (*Patient, error) {
	if len(strings.TrimSpace(name)) < 2 {
		return nil, apperrors.NewValidationError("patient name must be at least 2 characters", nil)
	}
	if age < 0 || age > 150 {
		return nil, apperrors.NewValidationError("age must be between 0 and 150", map[string]any{"age": age})
	}
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return nil, apperrors.NewValidationError("invalid gender", map[string]any{"gender": string(gender)})
	}
	if len(symptoms) == 0 {
		return nil, apperrors.NewValidationError("at least one symptom is required", nil)
	}
	if err := vitals.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Patient{
		id:          uuid.NewString(),
		name:        strings.TrimSpace(name),
		age:         age,
		gender:      gender,
		symptoms:    append([]string(nil), symptoms...),
		vitals:      vitals,
		priority:    CalculatePriority(vitals, age),
		status:      StatusWaiting,
		process:     ProcessNone,
		arrivalTime: now,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// PatientRecord is the flat persistence shape of a Patient.
type PatientRecord struct {
	ID                 string
	Name               string
	Age                int
	Gender             Gender
	Symptoms           []string
	Vitals             VitalSigns
	Priority           Priority
	ManualPriority     *Priority
	Status             PatientStatus
	Process            ProcessType
	ProcessDetails     string
	AssignedDoctorID   string
	AssignedDoctorName string
	AssignedNurseID    string
	Comments           []PatientComment
	ArrivalTime        time.Time
	TreatmentStartTime *time.Time
	DischargeTime      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PatientFromRecord rebuilds a patient from storage without regenerating
// the id or recomputing the priority.
func PatientFromRecord(rec PatientRecord) (*Patient, error) {
	if rec.ID == "" {
		return nil, apperrors.NewValidationError("patient id required", nil)
	}
	if !ValidPatientStatus(rec.Status) {
		return nil, apperrors.NewValidationError("invalid patient status", map[string]any{"status": string(rec.Status)})
	}
	if !rec.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": int(rec.Priority)})
	}
	if rec.ManualPriority != nil && !rec.ManualPriority.Valid() {
		return nil, apperrors.NewValidationError("invalid manual priority", map[string]any{"priority": int(*rec.ManualPriority)})
	}
	process := rec.Process
	if process == "" {
		process = ProcessNone
	}
	return &Patient{
		id:                 rec.ID,
		name:               rec.Name,
		age:                rec.Age,
		gender:             rec.Gender,
		symptoms:           append([]string(nil), rec.Symptoms...),
		vitals:             rec.Vitals,
		priority:           rec.Priority,
		manualPriority:     rec.ManualPriority,
		status:             rec.Status,
		process:            process,
		processDetails:     rec.ProcessDetails,
		assignedDoctorID:   rec.AssignedDoctorID,
		assignedDoctorName: rec.AssignedDoctorName,
		assignedNurseID:    rec.AssignedNurseID,
		comments:           append([]PatientComment(nil), rec.Comments...),
		arrivalTime:        rec.ArrivalTime,
		treatmentStartTime: rec.TreatmentStartTime,
		dischargeTime:      rec.DischargeTime,
		createdAt:          rec.CreatedAt,
		updatedAt:          rec.UpdatedAt,
	}, nil
}

// Snapshot returns the persistence shape of the patient.
func (p *Patient) Snapshot() PatientRecord {
	return PatientRecord{
		ID:                 p.id,
		Name:               p.name,
		Age:                p.age,
		Gender:             p.gender,
		Symptoms:           append([]string(nil), p.symptoms...),
		Vitals:             p.vitals,
		Priority:           p.priority,
		ManualPriority:     p.manualPriority,
		Status:             p.status,
		Process:            p.process,
		ProcessDetails:     p.processDetails,
		AssignedDoctorID:   p.assignedDoctorID,
		AssignedDoctorName: p.assignedDoctorName,
		AssignedNurseID:    p.assignedNurseID,
		Comments:           append([]PatientComment(nil), p.comments...),
		ArrivalTime:        p.arrivalTime,
		TreatmentStartTime: p.treatmentStartTime,
		DischargeTime:      p.dischargeTime,
		CreatedAt:          p.createdAt,
		UpdatedAt:          p.updatedAt,
	}
}

func (p *Patient) ID() string            { return p.id }
func (p *Patient) Name() string          { return p.name }
func (p *Patient) Age() int              { return p.age }
func (p *Patient) Gender() Gender        { return p.gender }
func (p *Patient) Vitals() VitalSigns    { return p.vitals }
func (p *Patient) Status() PatientStatus { return p.status }
func (p *Patient) Process() ProcessType  { return p.process }
func (p *Patient) ProcessDetails() string {
	return p.processDetails
}
func (p *Patient) AssignedDoctorID() string      { return p.assignedDoctorID }
func (p *Patient) AssignedDoctorName() string    { return p.assignedDoctorName }
func (p *Patient) AssignedNurseID() string       { return p.assignedNurseID }
func (p *Patient) ArrivalTime() time.Time        { return p.arrivalTime }
func (p *Patient) TreatmentStartTime() *time.Time { return p.treatmentStartTime }
func (p *Patient) DischargeTime() *time.Time     { return p.dischargeTime }
func (p *Patient) CreatedAt() time.Time          { return p.createdAt }
func (p *Patient) UpdatedAt() time.Time          { return p.updatedAt }

// Symptoms returns a copy of the symptom list.
func (p *Patient) Symptoms() []string {
	return append([]string(nil), p.symptoms...)
}

// Comments returns a copy of the comment list.
func (p *Patient) Comments() []PatientComment {
	return append([]PatientComment(nil), p.comments...)
}

// Priority returns the effective priority: the manual override when set,
// the automatic value otherwise.
func (p *Patient) Priority() Priority {
	if p.manualPriority != nil {
		return *p.manualPriority
	}
	return p.priority
}

// AutomaticPriority returns the computed priority, ignoring overrides.
func (p *Patient) AutomaticPriority() Priority { return p.priority }

// ManualPriority returns the override when one is set.
func (p *Patient) ManualPriority() *Priority {
	if p.manualPriority == nil {
		return nil
	}
	v := *p.manualPriority
	return &v
}

// IsAssigned reports whether a doctor currently holds the case.
func (p *Patient) IsAssigned() bool {
	return p.assignedDoctorID != ""
}

// AssignDoctor attaches the first doctor to the case. It fails when a
// doctor is already assigned; the case moves to IN_PROGRESS and the
// treatment clock starts.
func (p *Patient) AssignDoctor(doctorID, doctorName string) error {
	if p.IsAssigned() {
		return apperrors.NewConflict("patient already has an assigned doctor", map[string]any{
			"patientId": p.id,
			"doctorId":  p.assignedDoctorID,
		})
	}
	now := time.Now()
	p.assignedDoctorID = doctorID
	p.assignedDoctorName = doctorName
	p.status = StatusInProgress
	p.treatmentStartTime = &now
	p.touch()
	return nil
}

// ReassignDoctor swaps the doctor pointer without touching status. The
// caller is expected to have already validated the reassignment.
func (p *Patient) ReassignDoctor(doctorID, doctorName string) {
	p.assignedDoctorID = doctorID
	p.assignedDoctorName = doctorName
	p.touch()
}

// AssignNurse attaches a nurse to the case.
func (p *Patient) AssignNurse(nurseID string) {
	p.assignedNurseID = nurseID
	p.touch()
}

// UpdateStatus sets the status. Transition into DISCHARGED stamps the
// discharge time once; repeat discharges keep the original timestamp.
func (p *Patient) UpdateStatus(status PatientStatus) error {
	if !ValidPatientStatus(status) {
		return apperrors.NewValidationError("invalid patient status", map[string]any{"status": string(status)})
	}
	p.status = status
	if status == StatusDischarged && p.dischargeTime == nil {
		now := time.Now()
		p.dischargeTime = &now
	}
	p.touch()
	return nil
}

// SetProcess records the disposition and drives the matching status
// transition.
func (p *Patient) SetProcess(process ProcessType, details string) error {
	switch process {
	case ProcessNone, ProcessDischarge, ProcessHospitalization, ProcessHospitalizationDays, ProcessICU, ProcessReferral:
	default:
		return apperrors.NewValidationError("invalid process", map[string]any{"process": string(process)})
	}
	p.process = process
	p.processDetails = details

	switch process {
	case ProcessDischarge:
		return p.UpdateStatus(StatusDischarged)
	case ProcessICU, ProcessHospitalization, ProcessHospitalizationDays:
		return p.UpdateStatus(StatusUnderTreatment)
	case ProcessReferral:
		return p.UpdateStatus(StatusTransferred)
	}
	p.touch()
	return nil
}

// ClearProcess resets the disposition without altering status.
func (p *Patient) ClearProcess() {
	p.process = ProcessNone
	p.processDetails = ""
	p.touch()
}

// SetManualPriority overrides the automatic priority until cleared.
func (p *Patient) SetManualPriority(priority Priority) error {
	if !priority.Valid() {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": int(priority)})
	}
	p.manualPriority = &priority
	p.touch()
	return nil
}

// ClearManualPriority restores the automatic priority.
func (p *Patient) ClearManualPriority() {
	p.manualPriority = nil
	p.touch()
}

// AddComment appends a clinical note. The comment must belong to this
// patient.
func (p *Patient) AddComment(comment PatientComment) error {
	if comment.PatientID != p.id {
		return apperrors.NewValidationError("comment belongs to another patient", map[string]any{
			"patientId": p.id,
			"commentPatientId": comment.PatientID,
		})
	}
	p.comments = append(p.comments, comment)
	p.touch()
	return nil
}

// UpdateVitals records a fresh set of measurements and recomputes the
// automatic priority. A manual override keeps winning.
func (p *Patient) UpdateVitals(vitals VitalSigns) error {
	if err := vitals.Validate(); err != nil {
		return err
	}
	p.vitals = vitals
	p.priority = CalculatePriority(vitals, p.age)
	p.touch()
	return nil
}

func (p *Patient) touch() {
	p.updatedAt = time.Now()
}
