package domain

import (
	"context"

	"github.com/google/uuid"
)

// Skill is a shared catalog entry referenced by many candidates. Rows are
// created on first sight of a name and never mutated afterwards; the catalog
// is case-insensitively unique on name.
type Skill struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category *string   `json:"category"`
	IsActive bool      `json:"is_active"`
}

const (
	SkillSourceTypeExtraction = "cv_extraction"
	SkillSourceTypeProfile    = "profile_creation"
)

// CandidateSkill links a candidate to one catalog skill with provenance.
// A (candidate, skill) pair exists at most once.
type CandidateSkill struct {
	ID              uuid.UUID `json:"id"`
	CandidateID     uuid.UUID `json:"candidate_id"`
	SkillID         uuid.UUID `json:"skill_id"`
	Proficiency     *string   `json:"proficiency"`
	YearsExperience *int      `json:"years_experience"`
	SkillSource     string    `json:"skill_source"`
	SourceType      string    `json:"source_type"`
}

type SkillRepository interface {
	FindByName(ctx context.Context, name string) (*Skill, error)
	// GetOrCreate returns the catalog row for a name, inserting it when no
	// case-insensitive match exists. Concurrent callers racing on the same
	// new name converge on a single row.
	GetOrCreate(ctx context.Context, name string, category *string) (*Skill, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Skill, error)
}

// SkillResolver deduplicates free-text skill names against the catalog.
// Implementations are idempotent within one ingestion run.
type SkillResolver interface {
	Resolve(ctx context.Context, name string, category *string) (uuid.UUID, error)
}
