package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCandidateRepo struct {
	mock.Mock
}

func (m *mockCandidateRepo) CreateProfile(ctx context.Context, profile *domain.CandidateProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockCandidateRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *mockCandidateRepo) Update(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *mockCandidateRepo) GetApprovalStatus(ctx context.Context, candidateID uuid.UUID) (domain.ApprovalStatus, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(domain.ApprovalStatus), args.Error(1)
}

func (m *mockCandidateRepo) UpdateApprovalStatus(ctx context.Context, candidateID uuid.UUID, status domain.ApprovalStatus) error {
	args := m.Called(ctx, candidateID, status)
	return args.Error(0)
}

type mockSkillRepo struct {
	mock.Mock
}

func (m *mockSkillRepo) FindByName(ctx context.Context, name string) (*domain.Skill, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *mockSkillRepo) GetOrCreate(ctx context.Context, name string, category *string) (*domain.Skill, error) {
	args := m.Called(ctx, name, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *mockSkillRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Skill, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Skill), args.Error(1)
}

type mockResumeRepo struct {
	mock.Mock
}

func (m *mockResumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	args := m.Called(ctx, resume)
	return args.Error(0)
}

func (m *mockResumeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]domain.Resume, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *mockResumeRepo) SetPrimary(ctx context.Context, candidateID, resumeID uuid.UUID) (*domain.Resume, error) {
	args := m.Called(ctx, candidateID, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeRepo) SetAllowFetch(ctx context.Context, candidateID, resumeID uuid.UUID, allow bool) (*domain.Resume, error) {
	args := m.Called(ctx, candidateID, resumeID, allow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeRepo) Delete(ctx context.Context, candidateID, resumeID uuid.UUID) (*domain.Resume, error) {
	args := m.Called(ctx, candidateID, resumeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

type mockResumeService struct {
	mock.Mock
}

func (m *mockResumeService) Upload(ctx context.Context, userID uuid.UUID, upload *domain.ResumeUpload) (*domain.Resume, error) {
	args := m.Called(ctx, userID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeService) List(ctx context.Context, userID uuid.UUID) ([]domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *mockResumeService) Update(ctx context.Context, userID, resumeID uuid.UUID, req *domain.UpdateResumeRequest) (*domain.Resume, error) {
	args := m.Called(ctx, userID, resumeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *mockResumeService) Remove(ctx context.Context, userID, resumeID uuid.UUID) error {
	args := m.Called(ctx, userID, resumeID)
	return args.Error(0)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*domain.BlobInfo, error) {
	args := m.Called(ctx, file, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlobInfo), args.Error(1)
}

func (m *mockBlobStore) DeleteFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

type mockCacheRepo struct {
	mock.Mock
}

func (m *mockCacheRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *mockCacheRepo) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
