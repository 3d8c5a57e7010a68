package capture

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t,
		"captures/u1/2024-01-15/in-123e4567-e89b-12d3-a456-426614174000.bin",
		Key("u1", date, KindTimeIn, id),
	)
}

func TestSave_StoresPayloadVerbatim(t *testing.T) {
	ctx := context.Background()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewCaptureService(local)

	payload := "data:image/jpeg;base64,/9j/4AAQSkZJRg=="
	key, err := svc.Save(ctx, "u1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), KindTimeOut, payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "captures/u1/2024-01-15/out-"))
	assert.True(t, strings.HasSuffix(key, ".bin"))

	rc, err := svc.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))

	require.NoError(t, svc.Delete(ctx, key))
	_, err = svc.Open(ctx, key)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestUserKey(t *testing.T) {
	key, ok := UserKey("u1", "2024-01-15/in-abc.bin")
	assert.True(t, ok)
	assert.Equal(t, "captures/u1/2024-01-15/in-abc.bin", key)

	for _, tc := range []struct{ user, rest string }{
		{"u1", "../u2/2024-01-15/in-abc.bin"},
		{"u1", ".."},
		{"u1", ""},
		{"..", "u2/x.bin"},
		{"", "x.bin"},
	} {
		_, ok := UserKey(tc.user, tc.rest)
		assert.False(t, ok, "%s + %s", tc.user, tc.rest)
	}
}
