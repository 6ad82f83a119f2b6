package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrExtractionInvalid   = errors.New("extraction response is not valid structured data")
	ErrExtractionTimeout   = errors.New("extraction timed out")
	ErrAIClientUnavailable = errors.New("ai client is not available, cannot extract document")
)

// GenerativeClient is the boundary to the external extraction model.
// Implemented by pkg/genai.
type GenerativeClient interface {
	GenerateJSONFromBytes(ctx context.Context, systemPrompt, userPrompt string, data []byte, mimeType string) (string, error)
}

// RawExtraction is the untrusted bag the extraction model returns. Every field
// is optional and every enum is free text; nothing here is safe to persist
// until it has passed through normalization.
type RawExtraction struct {
	PersonalInfo         *RawPersonalInfo    `json:"personal_info"`
	Summary              *string             `json:"summary"`
	ExperienceLevel      *string             `json:"experience_level"`
	ExpectedSalary       *string             `json:"expected_salary"`
	TotalYearsExperience *int                `json:"total_years_experience"`
	WorkExperiences      []RawWorkExperience `json:"work_experiences"`
	Educations           []RawEducation      `json:"educations"`
	Skills               []RawSkill          `json:"skills"`
	Projects             []RawProject        `json:"projects"`
	Certificates         []RawCertificate    `json:"certificates"`
	Awards               []RawAward          `json:"awards"`
	Volunteerings        []RawVolunteering   `json:"volunteerings"`
}

type RawPersonalInfo struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Title     *string `json:"title"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
}

type RawWorkExperience struct {
	Company        *string  `json:"company"`
	Position       *string  `json:"position"`
	EmploymentType *string  `json:"employment_type"`
	Location       *string  `json:"location"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	IsCurrent      *bool    `json:"is_current"`
	Description    *string  `json:"description"`
	Skills         []string `json:"skills"`
}

type RawEducation struct {
	Institution  *string  `json:"institution"`
	Degree       *string  `json:"degree"`
	FieldOfStudy *string  `json:"field_of_study"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	GPA          *string  `json:"gpa"`
	Skills       []string `json:"skills"`
}

type RawSkill struct {
	Name            *string `json:"name"`
	Category        *string `json:"category"`
	Proficiency     *string `json:"proficiency"`
	YearsExperience *int    `json:"years_experience"`
}

type RawProject struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	URL         *string  `json:"url"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Skills      []string `json:"skills"`
}

type RawCertificate struct {
	Name          *string  `json:"name"`
	Issuer        *string  `json:"issuer"`
	IssueDate     *string  `json:"issue_date"`
	ExpiryDate    *string  `json:"expiry_date"`
	CredentialURL *string  `json:"credential_url"`
	Skills        []string `json:"skills"`
}

type RawAward struct {
	Title       *string `json:"title"`
	Issuer      *string `json:"issuer"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

type RawVolunteering struct {
	Organization *string `json:"organization"`
	Position     *string `json:"position"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Description  *string `json:"description"`
}

// CanonicalProfile is the validated, normalized profile shape: enums are drawn
// from closed sets or nil, dates are YYYY-MM-DD or nil, lists are never nil.
// It is what Extract returns and what Create Profile consumes. Source records
// which flow produced the payload and survives the client's edit round trip.
type CanonicalProfile struct {
	Source               string                    `json:"source" validate:"omitempty,oneof=cv_extraction profile_creation"`
	FirstName            string                    `json:"first_name" validate:"required,max=100"`
	LastName             string                    `json:"last_name" validate:"required,max=100"`
	Title                string                    `json:"title" validate:"required,max=255"`
	Email                string                    `json:"email" validate:"omitempty,email"`
	Phone                string                    `json:"phone" validate:"required,max=32"`
	Location             string                    `json:"location" validate:"required,max=255"`
	Summary              string                    `json:"summary"`
	ExperienceLevel      *string                   `json:"experience_level"`
	ExpectedSalary       decimal.NullDecimal       `json:"expected_salary"`
	TotalYearsExperience int                       `json:"total_years_experience"`
	WorkExperiences      []CanonicalWorkExperience `json:"work_experiences"`
	Educations           []CanonicalEducation      `json:"educations"`
	Skills               []CanonicalSkill          `json:"skills"`
	Projects             []CanonicalProject        `json:"projects"`
	Certificates         []CanonicalCertificate    `json:"certificates"`
	Awards               []CanonicalAward          `json:"awards"`
	Volunteerings        []CanonicalVolunteering   `json:"volunteerings"`
}

type CanonicalWorkExperience struct {
	Company        string   `json:"company"`
	Position       string   `json:"position"`
	EmploymentType *string  `json:"employment_type"`
	Location       string   `json:"location"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	IsCurrent      bool     `json:"is_current"`
	Description    string   `json:"description"`
	SkillNames     []string `json:"skills"`
}

type CanonicalEducation struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"field_of_study"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	GPA          *string  `json:"gpa"`
	SkillNames   []string `json:"skills"`
}

type CanonicalSkill struct {
	Name            string  `json:"name"`
	Category        *string `json:"category"`
	Proficiency     *string `json:"proficiency"`
	YearsExperience *int    `json:"years_experience"`
}

type CanonicalProject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         *string  `json:"url"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	SkillNames  []string `json:"skills"`
}

type CanonicalCertificate struct {
	Name          string   `json:"name"`
	Issuer        string   `json:"issuer"`
	IssueDate     *string  `json:"issue_date"`
	ExpiryDate    *string  `json:"expiry_date"`
	CredentialURL *string  `json:"credential_url"`
	SkillNames    []string `json:"skills"`
}

type CanonicalAward struct {
	Title       string  `json:"title"`
	Issuer      string  `json:"issuer"`
	Date        *string `json:"date"`
	Description string  `json:"description"`
}

type CanonicalVolunteering struct {
	Organization string  `json:"organization"`
	Position     string  `json:"position"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Description  string  `json:"description"`
}

type ExtractedFileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// ExtractResult is a preview: nothing about it is persisted. The caller may
// edit the profile and submit it through Create Profile later.
type ExtractResult struct {
	Profile  CanonicalProfile  `json:"profile"`
	FileInfo ExtractedFileInfo `json:"file_info"`
	Counts   SectionCounts     `json:"counts"`
}

type ExtractionService interface {
	Extract(ctx context.Context, data []byte, fileName, mimeType string, size int64) (*ExtractResult, error)
}
