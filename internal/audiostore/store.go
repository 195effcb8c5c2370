// Package audiostore turns uploaded audio into a URL the transcription vendor can fetch.
package audiostore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectKey builds a date-partitioned, collision-free key for an uploaded file.
func ObjectKey(now time.Time, name string) string {
	return fmt.Sprintf("audio/%d/%02d/%02d/%s-%s", now.Year(), now.Month(), now.Day(), uuid.New(), sanitizeName(name))
}

func sanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "audio"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}

// Uploader is the vendor-side upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, audio io.Reader) (string, error)
}

// VendorStore hands the bytes straight to the transcription vendor.
type VendorStore struct {
	uploader Uploader
}

func NewVendorStore(uploader Uploader) *VendorStore {
	return &VendorStore{uploader: uploader}
}

func (s *VendorStore) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	url, err := s.uploader.Upload(ctx, body)
	if err != nil {
		return "", fmt.Errorf("vendor upload of %s failed: %w", name, err)
	}
	return url, nil
}
