package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

const (
	MaxSize1MB  int64 = 1 * MB
	MaxSize2MB  int64 = 2 * MB
	MaxSize5MB  int64 = 5 * MB
	MaxSize10MB int64 = 10 * MB
	MaxSize15MB int64 = 15 * MB
)

type FileValidator struct {
	maxSize      int64
	allowedTypes map[string]bool
	allowedMIMEs map[string]bool
}

type FileValidatorOption func(*FileValidator)

func NewFileValidator(opts ...FileValidatorOption) *FileValidator {
	v := &FileValidator{
		maxSize:      MaxSize2MB,
		allowedTypes: make(map[string]bool),
		allowedMIMEs: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

func WithMaxSize(size int64) FileValidatorOption {
	return func(v *FileValidator) {
		v.maxSize = size
	}
}

func WithAllowedTypes(types []string) FileValidatorOption {
	return func(v *FileValidator) {
		v.allowedTypes = make(map[string]bool)
		for _, t := range types {
			ext := strings.ToLower(t)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			v.allowedTypes[ext] = true
		}
	}
}

func WithAllowedMIMETypes(mimes []string) FileValidatorOption {
	return func(v *FileValidator) {
		v.allowedMIMEs = make(map[string]bool)
		for _, m := range mimes {
			v.allowedMIMEs[strings.ToLower(m)] = true
		}
	}
}

func WithResumeDocumentTypes() FileValidatorOption {
	return func(v *FileValidator) {
		v.allowedTypes = map[string]bool{
			".pdf":  true,
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".doc":  true,
			".docx": true,
		}
		v.allowedMIMEs = map[string]bool{
			"application/pdf":    true,
			"image/jpeg":         true,
			"image/png":          true,
			"application/msword": true,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		}
	}
}

func (v *FileValidator) Validate(file *multipart.FileHeader) error {
	if err := v.ValidateSize(file); err != nil {
		return err
	}

	if err := v.ValidateType(file); err != nil {
		return err
	}

	return v.ValidateMIME(file)
}

func (v *FileValidator) ValidateSize(file *multipart.FileHeader) error {
	if file.Size > v.maxSize {
		return fmt.Errorf("file size exceeds maximum limit of %s", v.formatSize(v.maxSize))
	}
	return nil
}

func (v *FileValidator) ValidateType(file *multipart.FileHeader) error {
	if len(v.allowedTypes) == 0 {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !v.allowedTypes[ext] {
		return fmt.Errorf("file type %s is not allowed. Allowed types: %s", ext, v.getAllowedTypesString())
	}
	return nil
}

func (v *FileValidator) ValidateMIME(file *multipart.FileHeader) error {
	if len(v.allowedMIMEs) == 0 {
		return nil
	}

	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	// Strip any parameters, e.g. "application/pdf; charset=binary".
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	// Browsers fall back to a generic type for uploads they cannot sniff; the
	// extension check has already gated those files.
	if contentType == "" || contentType == "application/octet-stream" {
		return nil
	}
	if !v.allowedMIMEs[contentType] {
		return fmt.Errorf("content type %s is not allowed", contentType)
	}
	return nil
}

func (v *FileValidator) GetMaxSize() int64 {
	return v.maxSize
}

func (v *FileValidator) formatSize(size int64) string {
	if size >= GB {
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	}
	if size >= MB {
		return fmt.Sprintf("%.0f MB", float64(size)/float64(MB))
	}
	if size >= KB {
		return fmt.Sprintf("%.0f KB", float64(size)/float64(KB))
	}
	return fmt.Sprintf("%d bytes", size)
}

func (v *FileValidator) getAllowedTypesString() string {
	types := make([]string, 0, len(v.allowedTypes))
	for t := range v.allowedTypes {
		types = append(types, strings.TrimPrefix(t, "."))
	}
	return strings.Join(types, ", ")
}

// ResumeDocumentValidator accepts the resume upload policy: pdf, jpeg, png,
// doc or docx, at most 10MB.
func ResumeDocumentValidator() *FileValidator {
	return NewFileValidator(
		WithMaxSize(MaxSize10MB),
		WithResumeDocumentTypes(),
	)
}

// ExtractionDocumentValidator accepts the same policy as resume upload; the
// check runs before any extraction network call.
func ExtractionDocumentValidator() *FileValidator {
	return NewFileValidator(
		WithMaxSize(MaxSize10MB),
		WithResumeDocumentTypes(),
	)
}
