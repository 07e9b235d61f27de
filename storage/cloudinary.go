// Package storage wraps the file storage provider used for report attachments.
package storage

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StoredFile describes one stored attachment
type StoredFile struct {
	URL          string
	PublicID     string
	ResourceType string
}

// Uploader stores and deletes attachment files. Upload failures are fatal to
// the operation that triggered them; Destroy is best-effort by contract.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader) (StoredFile, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

type cloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// New creates an Uploader from the CLOUDINARY_* environment values
func New() (Uploader, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &cloudinaryUploader{cld: cld}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader) (StoredFile, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		ResourceType: "auto",
	})
	if err != nil {
		return StoredFile{}, err
	}
	return StoredFile{
		URL:          resp.SecureURL,
		PublicID:     resp.PublicID,
		ResourceType: resp.ResourceType,
	}, nil
}

func (u *cloudinaryUploader) Destroy(ctx context.Context, publicID, resourceType string) error {
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	return err
}
