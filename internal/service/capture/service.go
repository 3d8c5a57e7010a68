package capture

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type Kind string

const (
	KindTimeIn  Kind = "in"
	KindTimeOut Kind = "out"
)

const contentType = "application/octet-stream"

// CaptureService stores the face-capture payloads sent with time-in and time-out.
// Payloads are written byte-for-byte and never decoded.
type CaptureService interface {
	Save(ctx context.Context, userID string, workDate time.Time, kind Kind, payload string) (string, error)
	Delete(ctx context.Context, key string) error

	// Open streams a stored payload; storage.ErrObjectNotFound if missing
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type captureServiceImpl struct {
	storage storage.FileStorage
}

func NewCaptureService(storage storage.FileStorage) CaptureService {
	return &captureServiceImpl{storage: storage}
}

// Key builds captures/<user>/<date>/<kind>-<uuid>.bin.
func Key(userID string, workDate time.Time, kind Kind, id uuid.UUID) string {
	return path.Join("captures", userID, workDate.Format("2006-01-02"), fmt.Sprintf("%s-%s.bin", kind, id))
}

// UserKey joins rest under the user's capture directory. It reports false
// when the cleaned key would land outside that directory.
func UserKey(userID, rest string) (string, bool) {
	if userID == "" || strings.Contains(userID, "/") || userID == "." || userID == ".." {
		return "", false
	}
	dir := path.Join("captures", userID) + "/"
	key := path.Join(dir, rest)
	if !strings.HasPrefix(key, dir) {
		return "", false
	}
	return key, true
}

func (s *captureServiceImpl) Save(ctx context.Context, userID string, workDate time.Time, kind Kind, payload string) (string, error) {
	key := Key(userID, workDate, kind, uuid.New())

	stored, err := s.storage.Upload(ctx, strings.NewReader(payload), key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store capture: %w", err)
	}
	return stored, nil
}

func (s *captureServiceImpl) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *captureServiceImpl) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, key)
}
