package imagekit

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imagekit-developer/imagekit-go/v2"
	"github.com/imagekit-developer/imagekit-go/v2/option"
	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/pkg/validator"
)

type Config struct {
	PublicKey   string
	PrivateKey  string
	URLEndpoint string
}

type Client struct {
	ik        imagekit.Client
	validator *validator.FileValidator
}

func NewClient(config Config) *Client {
	ik := imagekit.NewClient(
		option.WithPrivateKey(config.PrivateKey),
	)

	return &Client{
		ik:        ik,
		validator: validator.ResumeDocumentValidator(),
	}
}

func (c *Client) SetValidator(v *validator.FileValidator) {
	c.validator = v
}

func (c *Client) ValidateDocument(file *multipart.FileHeader) error {
	return c.validator.Validate(file)
}

// UploadFile stores the document under the given folder with a
// collision-resistant name and returns the public URL plus the storage key
// needed for later deletion.
func (c *Client) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*domain.BlobInfo, error) {
	if err := c.ValidateDocument(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	uniqueFileName := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)

	resp, err := c.ik.Files.Upload(ctx, imagekit.FileUploadParams{
		File:     io.Reader(src),
		FileName: uniqueFileName,
		Folder:   imagekit.String(folder),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to ImageKit: %w", err)
	}

	return &domain.BlobInfo{
		URL:      resp.URL,
		FileID:   resp.FileID,
		Name:     resp.Name,
		Size:     int64(resp.Size),
		FileType: resp.FileType,
	}, nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return nil
	}

	err := c.ik.Files.Delete(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file from ImageKit: %w", err)
	}

	return nil
}
