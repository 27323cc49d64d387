package admin

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/siagacs/siaga-admin/internal/api"
)

// DefaultMaxPhotoDimension bounds the longest side of an enrollment photo.
const DefaultMaxPhotoDimension = 1024

// ErrNoPhotos is returned when an enrollment carries no images.
var ErrNoPhotos = errors.New("select at least one photo")

// FaceEnrollStatus describes the stored face data of a guard.
type FaceEnrollStatus struct {
	UserID    int64   `json:"user_id" yaml:"user_id"`
	Enrolled  bool    `json:"enrolled" yaml:"enrolled"`
	Count     int     `json:"count" yaml:"count"`
	Model     *string `json:"model,omitempty" yaml:"model,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type faceEnrollRequest struct {
	UserID int64    `json:"user_id" validate:"required,gt=0"`
	Images []string `json:"images" validate:"required,min=1,dive,required"`
}

// NotImageError is returned for photos that are not images.
type NotImageError struct {
	Name string
	MIME string
}

// Error implements error
func (e *NotImageError) Error() string {
	return fmt.Sprintf("%s is not an image (detected %s)", e.Name, e.MIME)
}

// EncodePhoto turns raw photo bytes into a data URL. The content type is
// sniffed rather than trusted from the file name. Photos larger than
// maxDim on either side are scaled down and re-encoded as JPEG; maxDim <= 0
// keeps the original bytes.
func EncodePhoto(name string, data []byte, maxDim int) (string, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", &NotImageError{Name: name, MIME: mtype.String()}
	}

	contentType := mtype.String()
	if maxDim > 0 {
		if scaled, ok := downscale(data, maxDim); ok {
			data = scaled
			contentType = "image/jpeg"
		}
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// downscale reports false when the photo is already small enough or is in
// a format imaging cannot decode; the original bytes are used then.
func downscale(data []byte, maxDim int) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return nil, false
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

// FaceEnrollment returns the enrollment status of a guard.
func (c *Client) FaceEnrollment(ctx context.Context, userID int64) (*FaceEnrollStatus, error) {
	return api.GetObject[FaceEnrollStatus](ctx, c.api, itemPath(pathFaceEnroll, userID), nil)
}

// EnrollFace uploads face photos, given as data URLs, for a guard.
func (c *Client) EnrollFace(ctx context.Context, userID int64, images []string) error {
	if len(images) == 0 {
		return ErrNoPhotos
	}
	req := faceEnrollRequest{UserID: userID, Images: images}
	if err := Validate(req); err != nil {
		return err
	}
	return api.Exec(ctx, c.api, http.MethodPost, pathFaceEnroll, req)
}

// DeleteFaceEnrollment removes the stored face data and returns the
// resulting empty status.
func (c *Client) DeleteFaceEnrollment(ctx context.Context, userID int64) (*FaceEnrollStatus, error) {
	if err := remove(ctx, c, itemPath(pathFaceEnroll, userID)); err != nil {
		return nil, err
	}
	return &FaceEnrollStatus{UserID: userID}, nil
}
