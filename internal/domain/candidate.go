package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleMIS       Role = "mis"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Full-form ingestion marks the profile complete regardless of which optional
// sections were supplied. Progressive completion is a separate flow with its
// own rules, so the policy lives here as named constants.
const (
	FullFormCompletion = 100
	FullFormCompleted  = true
)

var (
	ErrCandidateNotFound    = errors.New("candidate profile not found")
	ErrProfileAlreadyExists = errors.New("candidate profile already exists")
)

// ValidationError reports a user-correctable problem with a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthUser is the already-authenticated caller identity. Token issuance and
// account management live outside this service; only the id and role are
// trusted here.
type AuthUser struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

type Candidate struct {
	ID                   uuid.UUID           `json:"id"`
	UserID               uuid.UUID           `json:"user_id"`
	FirstName            string              `json:"first_name"`
	LastName             string              `json:"last_name"`
	Title                string              `json:"title"`
	Phone                string              `json:"phone"`
	Location             string              `json:"location"`
	Summary              string              `json:"summary"`
	ExperienceLevel      *string             `json:"experience_level"`
	ExpectedSalary       decimal.NullDecimal `json:"expected_salary"`
	TotalYearsExperience int                 `json:"total_years_experience"`
	CompletionPercentage int                 `json:"profile_completion_percentage"`
	CompletedProfile     bool                `json:"completed_profile"`
	ResumeURL            *string             `json:"resume_url"`
	ApprovalStatus       ApprovalStatus      `json:"approval_status"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

type WorkExperience struct {
	ID             uuid.UUID   `json:"id"`
	CandidateID    uuid.UUID   `json:"candidate_id"`
	Company        string      `json:"company"`
	Position       string      `json:"position"`
	EmploymentType *string     `json:"employment_type"`
	Location       string      `json:"location"`
	StartDate      *string     `json:"start_date"`
	EndDate        *string     `json:"end_date"`
	IsCurrent      bool        `json:"is_current"`
	Description    string      `json:"description"`
	SkillIDs       []uuid.UUID `json:"skill_ids"`
}

type Education struct {
	ID           uuid.UUID   `json:"id"`
	CandidateID  uuid.UUID   `json:"candidate_id"`
	Institution  string      `json:"institution"`
	Degree       string      `json:"degree"`
	FieldOfStudy string      `json:"field_of_study"`
	StartDate    *string     `json:"start_date"`
	EndDate      *string     `json:"end_date"`
	GPA          *string     `json:"gpa"`
	SkillIDs     []uuid.UUID `json:"skill_ids"`
}

type Project struct {
	ID          uuid.UUID   `json:"id"`
	CandidateID uuid.UUID   `json:"candidate_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	URL         *string     `json:"url"`
	StartDate   *string     `json:"start_date"`
	EndDate     *string     `json:"end_date"`
	SkillIDs    []uuid.UUID `json:"skill_ids"`
}

type Certificate struct {
	ID            uuid.UUID   `json:"id"`
	CandidateID   uuid.UUID   `json:"candidate_id"`
	Name          string      `json:"name"`
	Issuer        string      `json:"issuer"`
	IssueDate     *string     `json:"issue_date"`
	ExpiryDate    *string     `json:"expiry_date"`
	CredentialURL *string     `json:"credential_url"`
	SkillIDs      []uuid.UUID `json:"skill_ids"`
}

type Award struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Title       string    `json:"title"`
	Issuer      string    `json:"issuer"`
	Date        *string   `json:"date"`
	Description string    `json:"description"`
}

type Volunteering struct {
	ID           uuid.UUID `json:"id"`
	CandidateID  uuid.UUID `json:"candidate_id"`
	Organization string    `json:"organization"`
	Position     string    `json:"position"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Description  string    `json:"description"`
}

// CandidateProfile is the full aggregate written by one ingestion run and read
// back for profile views and PDF export.
type CandidateProfile struct {
	Candidate       Candidate        `json:"candidate"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
	Educations      []Education      `json:"educations"`
	Projects        []Project        `json:"projects"`
	Certificates    []Certificate    `json:"certificates"`
	Awards          []Award          `json:"awards"`
	Volunteerings   []Volunteering   `json:"volunteerings"`
	CandidateSkills []CandidateSkill `json:"candidate_skills"`
}

type SectionCounts struct {
	WorkExperiences int `json:"work_experiences"`
	Educations      int `json:"educations"`
	Skills          int `json:"skills"`
	Projects        int `json:"projects"`
	Certificates    int `json:"certificates"`
	Awards          int `json:"awards"`
	Volunteerings   int `json:"volunteerings"`
}

type CreateProfileResult struct {
	CandidateID  uuid.UUID     `json:"candidate_id"`
	Counts       SectionCounts `json:"counts"`
	Resume       *Resume       `json:"resume,omitempty"`
	ResumeStatus string        `json:"resume_status,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName       *string              `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName        *string              `json:"last_name" validate:"omitempty,min=1,max=100"`
	Title           *string              `json:"title" validate:"omitempty,min=2,max=255"`
	Phone           *string              `json:"phone" validate:"omitempty,min=5,max=32"`
	Location        *string              `json:"location" validate:"omitempty,min=2,max=255"`
	Summary         *string              `json:"summary" validate:"omitempty"`
	ExperienceLevel *string              `json:"experience_level" validate:"omitempty"`
	ExpectedSalary  *decimal.NullDecimal `json:"expected_salary" validate:"omitempty"`
}

type ApprovalInfo struct {
	CandidateID uuid.UUID      `json:"candidate_id"`
	Status      ApprovalStatus `json:"status"`
	Eligible    bool           `json:"eligible"`
}

type UpdateApprovalRequest struct {
	Status ApprovalStatus `json:"status" validate:"required,oneof=approved rejected"`
}

type CandidateRepository interface {
	// CreateProfile writes the candidate row, every dependent collection and
	// the candidate-skill joins as one transaction.
	CreateProfile(ctx context.Context, profile *CandidateProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Candidate, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*CandidateProfile, error)
	Update(ctx context.Context, candidate *Candidate) error
	GetApprovalStatus(ctx context.Context, candidateID uuid.UUID) (ApprovalStatus, error)
	UpdateApprovalStatus(ctx context.Context, candidateID uuid.UUID, status ApprovalStatus) error
}

type ProfileService interface {
	Create(ctx context.Context, userID uuid.UUID, profile *CanonicalProfile, resume *ResumeUpload) (*CreateProfileResult, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*CandidateProfile, error)
	Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Candidate, error)
	ExportPDF(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type ApprovalService interface {
	GetStatus(ctx context.Context, userID uuid.UUID) (*ApprovalInfo, error)
	SetStatus(ctx context.Context, candidateID uuid.UUID, status ApprovalStatus) (*ApprovalInfo, error)
	CanApply(ctx context.Context, candidateID uuid.UUID) (bool, error)
}

type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}
