package utils

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// AvatarUploader stores a profile picture and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, file interface{}, publicID string) (string, error)
}

// CloudinaryUploader uploads avatars to Cloudinary
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader initializes the Cloudinary client
func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// UploadAvatar uploads a file to Cloudinary and returns the secure URL
func (u *CloudinaryUploader) UploadAvatar(ctx context.Context, file interface{}, publicID string) (string, error) {
	overwrite := true
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         u.folder,
		Overwrite:      &overwrite,
		Transformation: "c_thumb,w_200,h_200",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
