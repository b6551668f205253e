// Package media wraps the Cloudinary blob store: upload a binary and get
// back a hosted URL plus the provider id used for later deletion. Nothing
// else about the provider leaks into the rest of the service.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Asset is the stored reference to an uploaded binary.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Uploader uploads and deletes media assets.
type Uploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New creates an uploader from a cloudinary:// URL. folder namespaces the
// uploads within the account.
func New(cloudinaryURL, folder string, logger zerolog.Logger) (*Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Uploader{cld: cld, folder: folder, logger: logger}, nil
}

// Upload stores the binary and returns its hosted reference.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (*Asset, error) {
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return nil, fmt.Errorf("media upload: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("media upload: %s", res.Error.Message)
	}

	u.logger.Debug().Str("public_id", res.PublicID).Msg("Uploaded media asset")
	return &Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes the asset with the given provider id.
func (u *Uploader) Delete(ctx context.Context, publicID string) error {
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("media delete: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("media delete: %s", res.Error.Message)
	}

	u.logger.Debug().Str("public_id", publicID).Msg("Deleted media asset")
	return nil
}
