package domain

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrStorageFailed  = errors.New("resume storage failed")
)

// Resume attach outcomes reported by profile creation. The attach is
// best-effort: the profile commits either way.
const (
	ResumeStatusUploaded     = "uploaded"
	ResumeStatusUploadFailed = "upload_failed"
)

// Resume is one uploaded CV document. A candidate owns any number of them but
// at most one carries is_primary at any observable point; the candidate's
// resume_url always mirrors the primary's URL.
type Resume struct {
	ID           uuid.UUID `json:"id"`
	CandidateID  uuid.UUID `json:"candidate_id"`
	URL          string    `json:"url"`
	FileID       string    `json:"file_id"`
	FileName     string    `json:"file_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	IsPrimary    bool      `json:"is_primary"`
	IsAllowFetch bool      `json:"is_allow_fetch"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ResumeUpload carries an incoming resume document and the candidate's flags
// for it.
type ResumeUpload struct {
	File       *multipart.FileHeader
	IsPrimary  bool
	AllowFetch bool
}

type UpdateResumeRequest struct {
	IsPrimary    *bool `json:"is_primary" validate:"omitempty"`
	IsAllowFetch *bool `json:"is_allow_fetch" validate:"omitempty"`
}

// BlobInfo describes a stored blob as reported by the object store.
type BlobInfo struct {
	URL      string `json:"url"`
	FileID   string `json:"file_id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	FileType string `json:"file_type"`
}

// BlobStore is the opaque document store: put, delete by key, public URL on
// upload. Implemented by pkg/imagekit.
type BlobStore interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*BlobInfo, error)
	DeleteFile(ctx context.Context, fileID string) error
}

type ResumeRepository interface {
	// Create inserts the row inside a per-candidate transaction; when the
	// resume is primary every sibling is demoted and the candidate's
	// resume_url is updated in the same unit of work.
	Create(ctx context.Context, resume *Resume) error
	FindByID(ctx context.Context, id uuid.UUID) (*Resume, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Resume, error)
	SetPrimary(ctx context.Context, candidateID, resumeID uuid.UUID) (*Resume, error)
	SetAllowFetch(ctx context.Context, candidateID, resumeID uuid.UUID, allow bool) (*Resume, error)
	// Delete removes the row, re-elects the most recent remaining resume as
	// primary when the deleted one was, and returns the deleted row so the
	// caller can clean up the blob.
	Delete(ctx context.Context, candidateID, resumeID uuid.UUID) (*Resume, error)
}

type ResumeService interface {
	Upload(ctx context.Context, userID uuid.UUID, upload *ResumeUpload) (*Resume, error)
	List(ctx context.Context, userID uuid.UUID) ([]Resume, error)
	Update(ctx context.Context, userID, resumeID uuid.UUID, req *UpdateResumeRequest) (*Resume, error)
	Remove(ctx context.Context, userID, resumeID uuid.UUID) error
}
