package service

import (
	"context"
	"database/sql"
	"mime/multipart"
	"testing"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validProfile() *domain.CanonicalProfile {
	return &domain.CanonicalProfile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Title:     "Software Engineer",
		Phone:     "+628123456789",
		Location:  "Jakarta",
		WorkExperiences: []domain.CanonicalWorkExperience{
			{Company: "Acme", Position: "Engineer", SkillNames: []string{"Go", "PostgreSQL"}},
		},
		Skills: []domain.CanonicalSkill{
			{Name: "Go", Proficiency: strPtr("expert")},
			{Name: "go"},
			{Name: "PostgreSQL"},
		},
	}
}

func newProfileServiceForTest(candidateRepo *mockCandidateRepo, skillRepo *mockSkillRepo, resumeSvc *mockResumeService) domain.ProfileService {
	return NewProfileService(candidateRepo, skillRepo, resumeSvc, validator.New())
}

func expectSkill(skillRepo *mockSkillRepo, name string) uuid.UUID {
	id := uuid.New()
	skillRepo.On("GetOrCreate", mock.Anything, name, mock.Anything).
		Return(&domain.Skill{ID: id, Name: name, IsActive: true}, nil)
	return id
}

func TestCreateProfileAlreadyExists(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	svc := newProfileServiceForTest(candidateRepo, new(mockSkillRepo), new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: uuid.New(), UserID: userID}, nil)

	_, err := svc.Create(context.Background(), userID, validProfile(), nil)
	assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)
	candidateRepo.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestCreateProfileDuplicateInsertSurfacesAsAlreadyExists(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	skillRepo := new(mockSkillRepo)
	svc := newProfileServiceForTest(candidateRepo, skillRepo, new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)
	expectSkill(skillRepo, "Go")
	expectSkill(skillRepo, "PostgreSQL")

	// A concurrent submission can land between the exists-check and the
	// insert; the repository reports the constraint hit as a duplicate and
	// the service must not bury it in a generic failure.
	candidateRepo.On("CreateProfile", mock.Anything, mock.Anything).
		Return(domain.ErrProfileAlreadyExists)

	_, err := svc.Create(context.Background(), userID, validProfile(), nil)
	assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)
}

func TestCreateProfileValidationFailure(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	svc := newProfileServiceForTest(candidateRepo, new(mockSkillRepo), new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)

	profile := validProfile()
	profile.FirstName = ""

	_, err := svc.Create(context.Background(), userID, profile, nil)

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "firstname", validationErr.Field)
	candidateRepo.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestCreateProfileSuccess(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	skillRepo := new(mockSkillRepo)
	svc := newProfileServiceForTest(candidateRepo, skillRepo, new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)

	goID := expectSkill(skillRepo, "Go")
	pgID := expectSkill(skillRepo, "PostgreSQL")

	var captured *domain.CandidateProfile
	candidateRepo.On("CreateProfile", mock.Anything, mock.AnythingOfType("*domain.CandidateProfile")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.CandidateProfile)
		}).
		Return(nil)

	result, err := svc.Create(context.Background(), userID, validProfile(), nil)
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result.ResumeStatus)
	assert.Equal(t, 1, result.Counts.WorkExperiences)
	assert.Equal(t, 3, result.Counts.Skills)

	assert.NotNil(t, captured)
	assert.Equal(t, result.CandidateID, captured.Candidate.ID)
	assert.Equal(t, userID, captured.Candidate.UserID)
	assert.Equal(t, domain.ApprovalPending, captured.Candidate.ApprovalStatus)
	assert.Equal(t, domain.FullFormCompletion, captured.Candidate.CompletionPercentage)
	assert.True(t, captured.Candidate.CompletedProfile)

	assert.Len(t, captured.WorkExperiences, 1)
	assert.Equal(t, []uuid.UUID{goID, pgID}, captured.WorkExperiences[0].SkillIDs)

	// "Go" and "go" collapse to one catalog row; the join list carries each
	// pair once.
	assert.Len(t, captured.CandidateSkills, 2)
	for _, cs := range captured.CandidateSkills {
		assert.Equal(t, domain.SkillSourceTypeProfile, cs.SourceType)
	}
}

func TestCreateProfileExtractionSourceCarries(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	skillRepo := new(mockSkillRepo)
	svc := newProfileServiceForTest(candidateRepo, skillRepo, new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)
	expectSkill(skillRepo, "Go")
	expectSkill(skillRepo, "PostgreSQL")

	var captured *domain.CandidateProfile
	candidateRepo.On("CreateProfile", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.CandidateProfile)
		}).
		Return(nil)

	profile := validProfile()
	profile.Source = domain.SkillSourceTypeExtraction

	_, err := svc.Create(context.Background(), userID, profile, nil)
	assert.NoError(t, err)
	for _, cs := range captured.CandidateSkills {
		assert.Equal(t, domain.SkillSourceTypeExtraction, cs.SourceType)
	}
}

func TestCreateProfileResumeAttachIsBestEffort(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	skillRepo := new(mockSkillRepo)
	resumeSvc := new(mockResumeService)
	svc := newProfileServiceForTest(candidateRepo, skillRepo, resumeSvc)

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)
	expectSkill(skillRepo, "Go")
	expectSkill(skillRepo, "PostgreSQL")
	candidateRepo.On("CreateProfile", mock.Anything, mock.Anything).Return(nil)

	upload := &domain.ResumeUpload{File: &multipart.FileHeader{Filename: "cv.pdf"}, IsPrimary: true}
	resumeSvc.On("Upload", mock.Anything, userID, upload).Return(nil, domain.ErrStorageFailed)

	result, err := svc.Create(context.Background(), userID, validProfile(), upload)

	// Storage failure does not fail the creation; the result reports it.
	assert.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusUploadFailed, result.ResumeStatus)
	assert.Nil(t, result.Resume)
}

func TestCreateProfileResumeAttachSuccess(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	skillRepo := new(mockSkillRepo)
	resumeSvc := new(mockResumeService)
	svc := newProfileServiceForTest(candidateRepo, skillRepo, resumeSvc)

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)
	expectSkill(skillRepo, "Go")
	expectSkill(skillRepo, "PostgreSQL")
	candidateRepo.On("CreateProfile", mock.Anything, mock.Anything).Return(nil)

	upload := &domain.ResumeUpload{File: &multipart.FileHeader{Filename: "cv.pdf"}, IsPrimary: true}
	uploaded := &domain.Resume{ID: uuid.New(), IsPrimary: true, FileName: "cv.pdf"}
	resumeSvc.On("Upload", mock.Anything, userID, upload).Return(uploaded, nil)

	result, err := svc.Create(context.Background(), userID, validProfile(), upload)
	assert.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusUploaded, result.ResumeStatus)
	assert.Equal(t, uploaded, result.Resume)
}

func TestGetByUserIDNotFound(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	svc := newProfileServiceForTest(candidateRepo, new(mockSkillRepo), new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindProfileByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)

	_, err := svc.GetByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestUpdateProfileAppliesPatch(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	svc := newProfileServiceForTest(candidateRepo, new(mockSkillRepo), new(mockResumeService))

	userID := uuid.New()
	existing := &domain.Candidate{
		ID:        uuid.New(),
		UserID:    userID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Title:     "Engineer",
	}
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(existing, nil)
	candidateRepo.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.Update(context.Background(), userID, &domain.UpdateProfileRequest{
		Title:           strPtr("Staff Engineer"),
		ExperienceLevel: strPtr("Senior"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Title)
	assert.Equal(t, "senior", *updated.ExperienceLevel)
	assert.Equal(t, "Ada", updated.FirstName)
}

func TestUpdateProfileNotFound(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	svc := newProfileServiceForTest(candidateRepo, new(mockSkillRepo), new(mockResumeService))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)

	_, err := svc.Update(context.Background(), userID, &domain.UpdateProfileRequest{Title: strPtr("Engineer")})
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}
