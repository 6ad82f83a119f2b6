package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/pkg/validator"

	"github.com/google/uuid"
)

type resumeService struct {
	resumeRepo    domain.ResumeRepository
	candidateRepo domain.CandidateRepository
	blobStore     domain.BlobStore
	fileValidator *validator.FileValidator
}

func NewResumeService(
	resumeRepo domain.ResumeRepository,
	candidateRepo domain.CandidateRepository,
	blobStore domain.BlobStore,
) domain.ResumeService {
	return &resumeService{
		resumeRepo:    resumeRepo,
		candidateRepo: candidateRepo,
		blobStore:     blobStore,
		fileValidator: validator.ResumeDocumentValidator(),
	}
}

func (s *resumeService) Upload(ctx context.Context, userID uuid.UUID, upload *domain.ResumeUpload) (*domain.Resume, error) {
	candidate, err := s.findCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.fileValidator.Validate(upload.File); err != nil {
		return nil, &domain.ValidationError{Field: "file", Message: err.Error()}
	}

	folder := fmt.Sprintf("resumes/%s", candidate.ID)
	info, err := s.blobStore.UploadFile(ctx, upload.File, folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}

	resume := &domain.Resume{
		ID:           uuid.New(),
		CandidateID:  candidate.ID,
		URL:          info.URL,
		FileID:       info.FileID,
		FileName:     upload.File.Filename,
		Size:         info.Size,
		MimeType:     documentMimeType(upload.File),
		IsPrimary:    upload.IsPrimary,
		IsAllowFetch: upload.AllowFetch,
		UploadedAt:   time.Now(),
	}

	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		// The row never landed; drop the orphaned blob so storage does not
		// accumulate unreferenced documents.
		if delErr := s.blobStore.DeleteFile(ctx, info.FileID); delErr != nil {
			log.Printf("failed to delete orphaned resume blob %s: %v", info.FileID, delErr)
		}
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	return resume, nil
}

// documentMimeTypes maps validated extensions to the type stored on the row;
// the client header is not trusted because browsers send generic types for
// uploads they cannot sniff.
var documentMimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func documentMimeType(file *multipart.FileHeader) string {
	if mimeType, ok := documentMimeTypes[strings.ToLower(filepath.Ext(file.Filename))]; ok {
		return mimeType
	}
	return file.Header.Get("Content-Type")
}

func (s *resumeService) List(ctx context.Context, userID uuid.UUID) ([]domain.Resume, error) {
	candidate, err := s.findCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resumeRepo.ListByCandidate(ctx, candidate.ID)
}

func (s *resumeService) Update(ctx context.Context, userID, resumeID uuid.UUID, req *domain.UpdateResumeRequest) (*domain.Resume, error) {
	candidate, err := s.findCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Demoting the primary directly is not supported: promote another resume
	// instead, which demotes this one in the same transaction.
	if req.IsPrimary != nil && !*req.IsPrimary {
		return nil, &domain.ValidationError{Field: "is_primary", Message: "cannot unset the primary resume; promote another resume instead"}
	}

	resume, err := s.resumeRepo.FindByID(ctx, resumeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResumeNotFound
	}
	if err != nil {
		return nil, err
	}
	if resume.CandidateID != candidate.ID {
		return nil, domain.ErrResumeNotFound
	}

	if req.IsPrimary != nil && *req.IsPrimary {
		if resume, err = s.resumeRepo.SetPrimary(ctx, candidate.ID, resumeID); err != nil {
			return nil, err
		}
	}
	if req.IsAllowFetch != nil {
		if resume, err = s.resumeRepo.SetAllowFetch(ctx, candidate.ID, resumeID, *req.IsAllowFetch); err != nil {
			return nil, err
		}
	}

	return resume, nil
}

// Remove deletes the database row first and treats the blob deletion as
// best-effort: a stale object in storage is preferable to a dangling row
// pointing at a deleted blob.
func (s *resumeService) Remove(ctx context.Context, userID, resumeID uuid.UUID) error {
	candidate, err := s.findCandidate(ctx, userID)
	if err != nil {
		return err
	}

	deleted, err := s.resumeRepo.Delete(ctx, candidate.ID, resumeID)
	if err != nil {
		return err
	}

	if err := s.blobStore.DeleteFile(ctx, deleted.FileID); err != nil {
		log.Printf("failed to delete resume blob %s: %v", deleted.FileID, err)
	}
	return nil
}

func (s *resumeService) findCandidate(ctx context.Context, userID uuid.UUID) (*domain.Candidate, error) {
	candidate, err := s.candidateRepo.FindByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	return candidate, nil
}
