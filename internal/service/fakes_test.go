package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/repository"
)

// In-memory fakes for the repository interfaces. Missing rows are
// signalled with pgx.ErrNoRows, matching the real implementations.

type fakePatientRepo struct {
	patients  map[string]*domain.Patient
	updateErr error
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[string]*domain.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, patient *domain.Patient) error {
	r.patients[patient.ID()] = patient
	return nil
}

func (r *fakePatientRepo) Update(_ context.Context, patient *domain.Patient) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.patients[patient.ID()]; !ok {
		return pgx.ErrNoRows
	}
	r.patients[patient.ID()] = patient
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id string) (*domain.Patient, error) {
	patient, ok := r.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return patient, nil
}

func (r *fakePatientRepo) ListByDoctor(_ context.Context, doctorID string) ([]*domain.Patient, error) {
	var result []*domain.Patient
	for _, patient := range r.patients {
		if patient.AssignedDoctorID() == doctorID {
			result = append(result, patient)
		}
	}
	return result, nil
}

func (r *fakePatientRepo) ListWithFilter(_ context.Context, filter repository.PatientFilter) ([]*domain.Patient, error) {
	var result []*domain.Patient
	for _, patient := range r.patients {
		if filter.AssignedDoctorID != nil && patient.AssignedDoctorID() != *filter.AssignedDoctorID {
			continue
		}
		result = append(result, patient)
	}
	return result, nil
}

type fakeDoctorRepo struct {
	doctors   map[string]*domain.Doctor
	byUserID  map[string]*domain.Doctor
	updateErr error
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		doctors:  make(map[string]*domain.Doctor),
		byUserID: make(map[string]*domain.Doctor),
	}
}

func (r *fakeDoctorRepo) add(doctor *domain.Doctor) {
	r.doctors[doctor.ID] = doctor
}

func (r *fakeDoctorRepo) Create(_ context.Context, doctor *domain.Doctor) error {
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, doctor *domain.Doctor) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.doctors[doctor.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id string) (*domain.Doctor, error) {
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return doctor, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID string) (*domain.Doctor, error) {
	doctor, ok := r.byUserID[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return doctor, nil
}

func (r *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*domain.Doctor, error) {
	for _, doctor := range r.doctors {
		if doctor.Email == email {
			return doctor, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDoctorRepo) List(_ context.Context, _ repository.DoctorFilter) ([]*domain.Doctor, error) {
	var result []*domain.Doctor
	for _, doctor := range r.doctors {
		result = append(result, doctor)
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[string]*domain.Person
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.Person)}
}

func (r *fakeUserRepo) Create(_ context.Context, person *domain.Person) error {
	r.users[person.ID] = person
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, person *domain.Person) error {
	if _, ok := r.users[person.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[person.ID] = person
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.Person, error) {
	person, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return person, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.Person, error) {
	for _, person := range r.users {
		if person.Email == email {
			return person, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.Person, error) {
	var result []domain.Person
	for _, person := range r.users {
		if person.Role == role {
			result = append(result, *person)
		}
	}
	return result, nil
}

type fakeNurseRepo struct {
	nurses map[string]*domain.Nurse
}

func newFakeNurseRepo() *fakeNurseRepo {
	return &fakeNurseRepo{nurses: make(map[string]*domain.Nurse)}
}

func (r *fakeNurseRepo) Create(_ context.Context, nurse *domain.Nurse) error {
	r.nurses[nurse.ID] = nurse
	return nil
}

func (r *fakeNurseRepo) Update(_ context.Context, nurse *domain.Nurse) error {
	if _, ok := r.nurses[nurse.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.nurses[nurse.ID] = nurse
	return nil
}

func (r *fakeNurseRepo) GetByID(_ context.Context, id string) (*domain.Nurse, error) {
	nurse, ok := r.nurses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return nurse, nil
}

func (r *fakeNurseRepo) ListByShift(_ context.Context, shift domain.NurseShift) ([]*domain.Nurse, error) {
	var result []*domain.Nurse
	for _, nurse := range r.nurses {
		if nurse.Shift == shift {
			result = append(result, nurse)
		}
	}
	return result, nil
}

type fakeCommentRepo struct {
	comments []*domain.PatientComment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.PatientComment) error {
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, _ *domain.PatientComment) error { return nil }

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.PatientComment, error) {
	for _, comment := range r.comments {
		if comment.ID == id {
			return comment, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) ListByPatient(_ context.Context, patientID string) ([]*domain.PatientComment, error) {
	var result []*domain.PatientComment
	for _, comment := range r.comments {
		if comment.PatientID == patientID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.PatientComment, error) {
	var result []*domain.PatientComment
	for _, comment := range r.comments {
		if comment.AuthorID == authorID {
			result = append(result, comment)
		}
	}
	return result, nil
}

type fakeVitalsRepo struct {
	records   []*domain.VitalsRecord
	createErr error
}

func (r *fakeVitalsRepo) Create(_ context.Context, record *domain.VitalsRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeVitalsRepo) ListByPatient(_ context.Context, patientID string) ([]domain.VitalsRecord, error) {
	var result []domain.VitalsRecord
	for _, record := range r.records {
		if record.PatientID == patientID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *fakeVitalsRepo) ListByPatientAndRange(ctx context.Context, patientID string, _, _ time.Time) ([]domain.VitalsRecord, error) {
	return r.ListByPatient(ctx, patientID)
}

type fakeAuditRepo struct {
	records   []*domain.AuditRecord
	createErr error
}

func (r *fakeAuditRepo) Create(_ context.Context, record *domain.AuditRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAuditRepo) ListByPatient(_ context.Context, patientID string) ([]domain.AuditRecord, error) {
	var result []domain.AuditRecord
	for _, record := range r.records {
		if record.PatientID == patientID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *fakeAuditRepo) ListByDateRange(_ context.Context, _, _ time.Time) ([]domain.AuditRecord, error) {
	var result []domain.AuditRecord
	for _, record := range r.records {
		result = append(result, *record)
	}
	return result, nil
}

type recordingObserver struct {
	name   string
	events []events.Event
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) Update(_ context.Context, event events.Event) error {
	o.events = append(o.events, event)
	return nil
}

type publishedMessage struct {
	queue   string
	payload []byte
}

type fakePublisher struct {
	messages   []publishedMessage
	publishErr error
}

func (p *fakePublisher) PublishToQueue(_ context.Context, queue string, payload []byte) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.messages = append(p.messages, publishedMessage{queue: queue, payload: payload})
	return nil
}

func (p *fakePublisher) Close() {}
