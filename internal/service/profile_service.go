package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// skillSectionProfile tags candidate-skill joins with the profile section they
// were listed in.
const skillSectionProfile = "skills"

type profileService struct {
	candidateRepo domain.CandidateRepository
	skillRepo     domain.SkillRepository
	resumeSvc     domain.ResumeService
	validate      *validator.Validate
}

func NewProfileService(
	candidateRepo domain.CandidateRepository,
	skillRepo domain.SkillRepository,
	resumeSvc domain.ResumeService,
	validate *validator.Validate,
) domain.ProfileService {
	return &profileService{
		candidateRepo: candidateRepo,
		skillRepo:     skillRepo,
		resumeSvc:     resumeSvc,
		validate:      validate,
	}
}

// Create ingests a full profile in one shot. The candidate row and every
// section land in a single transaction; the optional resume is attached
// afterwards as a best-effort step so a storage outage cannot roll back an
// already valid profile.
func (s *profileService) Create(ctx context.Context, userID uuid.UUID, profile *domain.CanonicalProfile, resume *domain.ResumeUpload) (*domain.CreateProfileResult, error) {
	if _, err := s.candidateRepo.FindByUserID(ctx, userID); err == nil {
		return nil, domain.ErrProfileAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	normalizeCanonical(profile)
	if err := s.validate.Struct(profile); err != nil {
		return nil, firstValidationError(err)
	}

	aggregate, err := s.buildAggregate(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	if err := s.candidateRepo.CreateProfile(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to create candidate profile: %w", err)
	}

	result := &domain.CreateProfileResult{
		CandidateID: aggregate.Candidate.ID,
		Counts:      countSections(profile),
	}

	if resume != nil {
		uploaded, err := s.resumeSvc.Upload(ctx, userID, resume)
		if err != nil {
			log.Printf("resume attach failed for candidate %s: %v", aggregate.Candidate.ID, err)
			result.ResumeStatus = domain.ResumeStatusUploadFailed
		} else {
			result.Resume = uploaded
			result.ResumeStatus = domain.ResumeStatusUploaded
		}
	}

	return result, nil
}

// buildAggregate resolves every skill name against the catalog and assembles
// the persistence aggregate. Skill resolution runs outside the ingestion
// transaction: catalog rows are shared across candidates, so a row created
// here is harmless even if the profile insert later fails.
func (s *profileService) buildAggregate(ctx context.Context, userID uuid.UUID, profile *domain.CanonicalProfile) (*domain.CandidateProfile, error) {
	resolver := NewSkillResolver(s.skillRepo)

	resolveAll := func(names []string) ([]uuid.UUID, error) {
		ids := make([]uuid.UUID, 0, len(names))
		for _, name := range names {
			id, err := resolver.Resolve(ctx, name, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve skill %q: %w", name, err)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	candidateID := uuid.New()
	now := time.Now()

	aggregate := &domain.CandidateProfile{
		Candidate: domain.Candidate{
			ID:                   candidateID,
			UserID:               userID,
			FirstName:            profile.FirstName,
			LastName:             profile.LastName,
			Title:                profile.Title,
			Phone:                profile.Phone,
			Location:             profile.Location,
			Summary:              profile.Summary,
			ExperienceLevel:      profile.ExperienceLevel,
			ExpectedSalary:       profile.ExpectedSalary,
			TotalYearsExperience: profile.TotalYearsExperience,
			CompletionPercentage: domain.FullFormCompletion,
			CompletedProfile:     domain.FullFormCompleted,
			ApprovalStatus:       domain.ApprovalPending,
			CreatedAt:            now,
			UpdatedAt:            now,
		},
		WorkExperiences: make([]domain.WorkExperience, 0, len(profile.WorkExperiences)),
		Educations:      make([]domain.Education, 0, len(profile.Educations)),
		Projects:        make([]domain.Project, 0, len(profile.Projects)),
		Certificates:    make([]domain.Certificate, 0, len(profile.Certificates)),
		Awards:          make([]domain.Award, 0, len(profile.Awards)),
		Volunteerings:   make([]domain.Volunteering, 0, len(profile.Volunteerings)),
		CandidateSkills: make([]domain.CandidateSkill, 0, len(profile.Skills)),
	}

	for _, w := range profile.WorkExperiences {
		skillIDs, err := resolveAll(w.SkillNames)
		if err != nil {
			return nil, err
		}
		aggregate.WorkExperiences = append(aggregate.WorkExperiences, domain.WorkExperience{
			ID:             uuid.New(),
			CandidateID:    candidateID,
			Company:        w.Company,
			Position:       w.Position,
			EmploymentType: w.EmploymentType,
			Location:       w.Location,
			StartDate:      w.StartDate,
			EndDate:        w.EndDate,
			IsCurrent:      w.IsCurrent,
			Description:    w.Description,
			SkillIDs:       skillIDs,
		})
	}

	for _, e := range profile.Educations {
		skillIDs, err := resolveAll(e.SkillNames)
		if err != nil {
			return nil, err
		}
		aggregate.Educations = append(aggregate.Educations, domain.Education{
			ID:           uuid.New(),
			CandidateID:  candidateID,
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			GPA:          e.GPA,
			SkillIDs:     skillIDs,
		})
	}

	for _, p := range profile.Projects {
		skillIDs, err := resolveAll(p.SkillNames)
		if err != nil {
			return nil, err
		}
		aggregate.Projects = append(aggregate.Projects, domain.Project{
			ID:          uuid.New(),
			CandidateID: candidateID,
			Name:        p.Name,
			Description: p.Description,
			URL:         p.URL,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			SkillIDs:    skillIDs,
		})
	}

	for _, c := range profile.Certificates {
		skillIDs, err := resolveAll(c.SkillNames)
		if err != nil {
			return nil, err
		}
		aggregate.Certificates = append(aggregate.Certificates, domain.Certificate{
			ID:            uuid.New(),
			CandidateID:   candidateID,
			Name:          c.Name,
			Issuer:        c.Issuer,
			IssueDate:     c.IssueDate,
			ExpiryDate:    c.ExpiryDate,
			CredentialURL: c.CredentialURL,
			SkillIDs:      skillIDs,
		})
	}

	for _, a := range profile.Awards {
		aggregate.Awards = append(aggregate.Awards, domain.Award{
			ID:          uuid.New(),
			CandidateID: candidateID,
			Title:       a.Title,
			Issuer:      a.Issuer,
			Date:        a.Date,
			Description: a.Description,
		})
	}

	for _, v := range profile.Volunteerings {
		aggregate.Volunteerings = append(aggregate.Volunteerings, domain.Volunteering{
			ID:           uuid.New(),
			CandidateID:  candidateID,
			Organization: v.Organization,
			Position:     v.Position,
			StartDate:    v.StartDate,
			EndDate:      v.EndDate,
			Description:  v.Description,
		})
	}

	sourceType := domain.SkillSourceTypeProfile
	if profile.Source == domain.SkillSourceTypeExtraction {
		sourceType = domain.SkillSourceTypeExtraction
	}
	seen := make(map[uuid.UUID]bool)
	for _, skill := range profile.Skills {
		id, err := resolver.Resolve(ctx, skill.Name, skill.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve skill %q: %w", skill.Name, err)
		}
		// A profile mentioning the same skill under two casings resolves to one
		// catalog row; the join exists at most once per pair.
		if seen[id] {
			continue
		}
		seen[id] = true
		aggregate.CandidateSkills = append(aggregate.CandidateSkills, domain.CandidateSkill{
			ID:              uuid.New(),
			CandidateID:     candidateID,
			SkillID:         id,
			Proficiency:     skill.Proficiency,
			YearsExperience: skill.YearsExperience,
			SkillSource:     skillSectionProfile,
			SourceType:      sourceType,
		})
	}

	return aggregate, nil
}

func (s *profileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CandidateProfile, error) {
	profile, err := s.candidateRepo.FindProfileByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req *domain.UpdateProfileRequest) (*domain.Candidate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, firstValidationError(err)
	}

	candidate, err := s.candidateRepo.FindByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	if req.FirstName != nil {
		candidate.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		candidate.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Title != nil {
		candidate.Title = strings.TrimSpace(*req.Title)
	}
	if req.Phone != nil {
		candidate.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		candidate.Location = strings.TrimSpace(*req.Location)
	}
	if req.Summary != nil {
		candidate.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.ExperienceLevel != nil {
		candidate.ExperienceLevel = normalizeEnum(req.ExperienceLevel, experienceLevels)
	}
	if req.ExpectedSalary != nil {
		candidate.ExpectedSalary = *req.ExpectedSalary
	}

	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}
	return candidate, nil
}

func (s *profileService) ExportPDF(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	skillIDs := make([]uuid.UUID, 0, len(profile.CandidateSkills))
	for _, cs := range profile.CandidateSkills {
		skillIDs = append(skillIDs, cs.SkillID)
	}
	skills, err := s.skillRepo.ListByIDs(ctx, skillIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills for export: %w", err)
	}

	return renderProfilePDF(profile, skills)
}

// firstValidationError maps the first field failure to a user-facing error;
// anything that is not a field-level failure passes through untouched.
func firstValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed validation on the '%s' rule", fe.Tag()),
		}
	}
	return err
}
