package service

import (
	"context"
	"database/sql"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pdfFileHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{"application/pdf"},
		},
	}
}

func newResumeServiceForTest(resumeRepo *mockResumeRepo, candidateRepo *mockCandidateRepo, blobStore *mockBlobStore) domain.ResumeService {
	return NewResumeService(resumeRepo, candidateRepo, blobStore)
}

func TestResumeUploadSuccess(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, blobStore)

	userID := uuid.New()
	candidateID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: candidateID, UserID: userID}, nil)

	file := pdfFileHeader("cv.pdf", 1024)
	blobStore.On("UploadFile", mock.Anything, file, "resumes/"+candidateID.String()).
		Return(&domain.BlobInfo{URL: "https://cdn/x.pdf", FileID: "file-1", Name: "x.pdf", Size: 1024}, nil)

	var captured *domain.Resume
	resumeRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Resume")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Resume)
		}).
		Return(nil)

	resume, err := svc.Upload(context.Background(), userID, &domain.ResumeUpload{
		File:       file,
		IsPrimary:  true,
		AllowFetch: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, candidateID, resume.CandidateID)
	assert.Equal(t, "https://cdn/x.pdf", resume.URL)
	assert.Equal(t, "file-1", resume.FileID)
	assert.Equal(t, "cv.pdf", resume.FileName)
	assert.True(t, resume.IsPrimary)
	assert.True(t, resume.IsAllowFetch)
	assert.Equal(t, captured, resume)
}

func TestResumeUploadStoresCanonicalMimeType(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, blobStore)

	userID := uuid.New()
	candidateID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: candidateID, UserID: userID}, nil)

	// A browser that cannot sniff the file sends a generic content type; the
	// validated extension decides what gets stored.
	file := &multipart.FileHeader{
		Filename: "cv.pdf",
		Size:     1024,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"application/octet-stream"}},
	}
	blobStore.On("UploadFile", mock.Anything, file, mock.Anything).
		Return(&domain.BlobInfo{URL: "https://cdn/x.pdf", FileID: "file-1", Name: "x.pdf", Size: 1024}, nil)
	resumeRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resume, err := svc.Upload(context.Background(), userID, &domain.ResumeUpload{File: file, AllowFetch: true})
	assert.NoError(t, err)
	assert.Equal(t, "application/pdf", resume.MimeType)
}

func TestResumeUploadNoProfile(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(new(mockResumeRepo), candidateRepo, blobStore)

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)

	_, err := svc.Upload(context.Background(), userID, &domain.ResumeUpload{File: pdfFileHeader("cv.pdf", 1)})
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	blobStore.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestResumeUploadRejectsBadFile(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(new(mockResumeRepo), candidateRepo, blobStore)

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: uuid.New(), UserID: userID}, nil)

	file := &multipart.FileHeader{
		Filename: "cv.exe",
		Size:     1024,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"application/octet-stream"}},
	}

	_, err := svc.Upload(context.Background(), userID, &domain.ResumeUpload{File: file})

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "file", validationErr.Field)
	blobStore.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestResumeUploadStorageFailure(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(new(mockResumeRepo), candidateRepo, blobStore)

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: uuid.New(), UserID: userID}, nil)
	blobStore.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	_, err := svc.Upload(context.Background(), userID, &domain.ResumeUpload{File: pdfFileHeader("cv.pdf", 1)})
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
}

func TestResumeUploadCleansUpOrphanedBlob(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, blobStore)

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: uuid.New(), UserID: userID}, nil)
	blobStore.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.BlobInfo{URL: "https://cdn/x.pdf", FileID: "file-1"}, nil)
	resumeRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
	blobStore.On("DeleteFile", mock.Anything, "file-1").Return(nil)

	_, err := svc.Upload(context.Background(), userID, &domain.ResumeUpload{File: pdfFileHeader("cv.pdf", 1)})
	assert.Error(t, err)
	blobStore.AssertCalled(t, "DeleteFile", mock.Anything, "file-1")
}

func TestResumeUpdateRejectsUnsettingPrimary(t *testing.T) {
	candidateRepo := new(mockCandidateRepo)
	svc := newResumeServiceForTest(new(mockResumeRepo), candidateRepo, new(mockBlobStore))

	userID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: uuid.New(), UserID: userID}, nil)

	_, err := svc.Update(context.Background(), userID, uuid.New(), &domain.UpdateResumeRequest{
		IsPrimary: boolPtr(false),
	})

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "is_primary", validationErr.Field)
}

func TestResumeUpdatePromotesPrimary(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, new(mockBlobStore))

	userID := uuid.New()
	candidateID := uuid.New()
	resumeID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: candidateID, UserID: userID}, nil)
	resumeRepo.On("FindByID", mock.Anything, resumeID).
		Return(&domain.Resume{ID: resumeID, CandidateID: candidateID}, nil)
	resumeRepo.On("SetPrimary", mock.Anything, candidateID, resumeID).
		Return(&domain.Resume{ID: resumeID, CandidateID: candidateID, IsPrimary: true}, nil)

	resume, err := svc.Update(context.Background(), userID, resumeID, &domain.UpdateResumeRequest{
		IsPrimary: boolPtr(true),
	})
	assert.NoError(t, err)
	assert.True(t, resume.IsPrimary)
}

func TestResumeUpdateOtherCandidatesResume(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, new(mockBlobStore))

	userID := uuid.New()
	resumeID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: uuid.New(), UserID: userID}, nil)
	resumeRepo.On("FindByID", mock.Anything, resumeID).
		Return(&domain.Resume{ID: resumeID, CandidateID: uuid.New()}, nil)

	_, err := svc.Update(context.Background(), userID, resumeID, &domain.UpdateResumeRequest{
		IsAllowFetch: boolPtr(true),
	})
	assert.ErrorIs(t, err, domain.ErrResumeNotFound)
}

func TestResumeRemoveDeletesBlobBestEffort(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	blobStore := new(mockBlobStore)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, blobStore)

	userID := uuid.New()
	candidateID := uuid.New()
	resumeID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: candidateID, UserID: userID}, nil)
	resumeRepo.On("Delete", mock.Anything, candidateID, resumeID).
		Return(&domain.Resume{ID: resumeID, CandidateID: candidateID, FileID: "file-9"}, nil)
	blobStore.On("DeleteFile", mock.Anything, "file-9").Return(assert.AnError)

	// A failed blob delete is logged, not surfaced.
	err := svc.Remove(context.Background(), userID, resumeID)
	assert.NoError(t, err)
}

func TestResumeRemoveNotFound(t *testing.T) {
	resumeRepo := new(mockResumeRepo)
	candidateRepo := new(mockCandidateRepo)
	svc := newResumeServiceForTest(resumeRepo, candidateRepo, new(mockBlobStore))

	userID := uuid.New()
	candidateID := uuid.New()
	resumeID := uuid.New()
	candidateRepo.On("FindByUserID", mock.Anything, userID).
		Return(&domain.Candidate{ID: candidateID, UserID: userID}, nil)
	resumeRepo.On("Delete", mock.Anything, candidateID, resumeID).
		Return(nil, domain.ErrResumeNotFound)

	err := svc.Remove(context.Background(), userID, resumeID)
	assert.ErrorIs(t, err, domain.ErrResumeNotFound)
}
