package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// CommentType classifies clinical notes attached to a patient.
type CommentType string

const (
	CommentObservation  CommentType = "OBSERVATION"
	CommentDiagnosis    CommentType = "DIAGNOSIS"
	CommentTreatment    CommentType = "TREATMENT"
	CommentStatusChange CommentType = "STATUS_CHANGE"
	CommentTransfer     CommentType = "TRANSFER"
	CommentDischarge    CommentType = "DISCHARGE"
)

// PatientComment is a clinical note owned by exactly one patient.
type PatientComment struct {
	ID         string
	PatientID  string
	AuthorID   string
	AuthorName string
	AuthorRole Role
	Content    string
	Type       CommentType
	CreatedAt  time.Time
	IsEdited   bool
	EditedAt   *time.Time
}

// NewPatientComment validates and creates a comment.
func NewPatientComment(patientID, authorID, authorName string, authorRole Role, content string, commentType CommentType) (*PatientComment, error) {
	if patientID == "" {
		return nil, apperrors.NewValidationError("patient id required", nil)
	}
	if authorID == "" {
		return nil, apperrors.NewValidationError("author id required", nil)
	}
	if len(strings.TrimSpace(content)) < 5 {
		return nil, apperrors.NewValidationError("comment content must be at least 5 characters", nil)
	}
	switch commentType {
	case CommentObservation, CommentDiagnosis, CommentTreatment, CommentStatusChange, CommentTransfer, CommentDischarge:
	default:
		return nil, apperrors.NewValidationError("invalid comment type", map[string]any{"type": string(commentType)})
	}
	return &PatientComment{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		AuthorID:   authorID,
		AuthorName: authorName,
		AuthorRole: authorRole,
		Content:    strings.TrimSpace(content),
		Type:       commentType,
		CreatedAt:  time.Now(),
	}, nil
}

// Edit replaces the content and marks the comment as edited.
func (c *PatientComment) Edit(content string) error {
	if len(strings.TrimSpace(content)) < 5 {
		return apperrors.NewValidationError("comment content must be at least 5 characters", nil)
	}
	now := time.Now()
	c.Content = strings.TrimSpace(content)
	c.IsEdited = true
	c.EditedAt = &now
	return nil
}
