package audiostore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)

	key := ObjectKey(now, "../../etc/my memo.wav")
	assert.True(t, strings.HasPrefix(key, "audio/2025/03/07/"), key)
	assert.True(t, strings.HasSuffix(key, "-my_memo.wav"), key)
	assert.NotContains(t, key, "..")

	assert.NotEqual(t, ObjectKey(now, "a.wav"), ObjectKey(now, "a.wav"))
	assert.True(t, strings.HasSuffix(ObjectKey(now, ""), "-audio"))
}

type stubUploader struct {
	got string
	url string
	err error
}

func (s *stubUploader) Upload(ctx context.Context, audio io.Reader) (string, error) {
	raw, _ := io.ReadAll(audio)
	s.got = string(raw)
	return s.url, s.err
}

func TestVendorStore_Put(t *testing.T) {
	up := &stubUploader{url: "https://cdn.example/upload/1"}
	store := NewVendorStore(up)

	url, err := store.Put(context.Background(), "memo.wav", "audio/wav", strings.NewReader("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/upload/1", url)
	assert.Equal(t, "RIFF", up.got)

	up.err = errors.New("boom")
	_, err = store.Put(context.Background(), "memo.wav", "audio/wav", strings.NewReader("RIFF"))
	assert.Error(t, err)
}

func TestS3Store_Put(t *testing.T) {
	var (
		mu      sync.Mutex
		putPath string
		putType string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		if r.Method == http.MethodPut {
			mu.Lock()
			putPath = r.URL.Path
			putType = r.Header.Get("Content-Type")
			mu.Unlock()
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewS3Store(context.Background(), S3Config{
		Endpoint:  server.URL,
		Region:    "us-east-1",
		Bucket:    "lifeos-audio",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC) }

	url, err := store.Put(context.Background(), "memo.wav", "audio/wav", strings.NewReader("RIFFdata"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasPrefix(putPath, "/lifeos-audio/audio/2025/01/02/"), putPath)
	assert.Equal(t, "audio/wav", putType)

	assert.True(t, strings.HasPrefix(url, server.URL+"/lifeos-audio/audio/2025/01/02/"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=3600")
}

func TestS3Store_PutFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer server.Close()

	store, err := NewS3Store(context.Background(), S3Config{
		Endpoint: server.URL, Region: "us-east-1", Bucket: "b", AccessKey: "k", SecretKey: "s",
	})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "memo.wav", "audio/wav", strings.NewReader("x"))
	assert.Error(t, err)
}
