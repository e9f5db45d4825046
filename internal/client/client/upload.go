package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

var _ Client = (*HTTPClient)(nil)

type uploads struct {
	c *HTTPClient
}

// uploadResponse accepts both the backend's camelCase fields and the raw
// storage-provider names it sometimes passes through.
type uploadResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"publicId"`
	PublicID2 string `json:"public_id"`
}

func (u uploadResponse) media() models.Media {
	m := models.Media{URL: u.SecureURL, PublicID: u.PublicID}
	if m.URL == "" {
		m.URL = u.URL
	}
	if m.PublicID == "" {
		m.PublicID = u.PublicID2
	}
	return m
}

// uploadRoute returns the endpoint and multipart field for kind. Audio and
// video share the media endpoint.
func uploadRoute(kind models.MediaKind) (path, field string) {
	if kind == models.MediaImage {
		return "/api/upload/image", "image"
	}
	return "/api/upload/audio", "audio"
}

// resourceType is the storage provider's bucket for kind.
func resourceType(kind models.MediaKind) string {
	if kind == models.MediaImage {
		return "image"
	}
	return "video"
}

func (u *uploads) Upload(ctx context.Context, kind models.MediaKind, filename string, r io.Reader) (models.Media, error) {
	path, field := uploadRoute(kind)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return models.Media{}, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.Media{}, fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.Media{}, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.c.endpoint(path, nil), &buf)
	if err != nil {
		return models.Media{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var resp uploadResponse
	if err := u.c.send(req, &resp); err != nil {
		return models.Media{}, err
	}

	m := resp.media()
	if err := models.Validate(m); err != nil {
		return models.Media{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return m, nil
}

func (u *uploads) DeleteMedia(ctx context.Context, kind models.MediaKind, publicID string) error {
	body := map[string]string{"publicId": publicID, "resourceType": resourceType(kind)}
	return u.c.doJSON(ctx, http.MethodPost, "/api/upload/delete-media", nil, body, nil)
}

func (u *uploads) DeleteImage(ctx context.Context, publicID string) error {
	body := map[string]string{"publicId": publicID}
	return u.c.doJSON(ctx, http.MethodPost, "/api/upload/delete-cloudinary-image", nil, body, nil)
}
