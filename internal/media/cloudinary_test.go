package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(Config{
		CloudName:    "demo",
		APIKey:       "test-key",
		APISecret:    "test-secret",
		UploadPrefix: srv.URL,
	})
	return client, srv
}

func TestUploadSuccess(t *testing.T) {
	payload := []byte("fake jpeg bytes")

	var gotPath string
	var gotFields map[string]string
	var gotFile []byte

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFile, err = io.ReadAll(f)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"public_id": "next-cloudinary-uploads/abc123",
			"bytes": 11842,
			"format": "jpg",
			"resource_type": "image",
			"secure_url": "https://res.example.com/abc123.jpg",
			"etag": "deadbeef"
		}`)
	}))
	defer srv.Close()

	result, err := client.Upload(context.Background(), UploadOptions{
		Folder:   "next-cloudinary-uploads",
		Filename: "photo.jpg",
	}, payload)
	require.NoError(t, err)

	assert.Equal(t, "/demo/image/upload", gotPath)
	assert.Equal(t, payload, gotFile)
	assert.Equal(t, "test-key", gotFields["api_key"])
	assert.Equal(t, "next-cloudinary-uploads", gotFields["folder"])
	assert.NotEmpty(t, gotFields["timestamp"])
	assert.NotEmpty(t, gotFields["signature"])

	assert.Equal(t, "next-cloudinary-uploads/abc123", result.PublicID)
	assert.Equal(t, int64(11842), result.Bytes)
	assert.Zero(t, result.Duration)
	assert.Equal(t, "jpg", result.Format)
	assert.Contains(t, result.Raw, "etag")
}

func TestUploadVideoSendsResourceTypeAndTransformation(t *testing.T) {
	var gotPath, gotTransformation string

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotTransformation = r.FormValue("transformation")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"public_id": "video-uploads/vid1", "bytes": 2048, "duration": 12.5}`)
	}))
	defer srv.Close()

	result, err := client.Upload(context.Background(), UploadOptions{
		Folder:          "video-uploads",
		ResourceType:    ResourceVideo,
		Transformations: []string{TransformationAutoQuality, TransformationMP4},
	}, []byte("mp4 bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/demo/video/upload", gotPath)
	assert.Equal(t, "q_auto,f_mp4", gotTransformation)
	assert.Equal(t, 12.5, result.Duration)
}

func TestUploadServiceErrorSurfaces(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "Invalid image file"}}`)
	}))
	defer srv.Close()

	result, err := client.Upload(context.Background(), UploadOptions{}, []byte("junk"))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestUploadTransportError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	result, err := client.Upload(context.Background(), UploadOptions{}, []byte("data"))
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestStreamResolvesExactlyOnce(t *testing.T) {
	s := newUploadStream(nil)

	first := &UploadResult{PublicID: "first"}
	s.complete(first, nil)
	s.complete(nil, errors.New("late failure"))
	s.complete(&UploadResult{PublicID: "third"}, nil)

	result, err := s.Result(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, result)
}

func TestResultPropagatesCancellation(t *testing.T) {
	release := make(chan struct{})
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	stream := client.OpenStream(ctx, UploadOptions{})
	_, err := stream.Write([]byte("partial"))
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := stream.Result(ctx)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSignParamsCanonicalForm(t *testing.T) {
	// The canonical string is the sorted key=value pairs joined with
	// '&', with the secret appended.
	sum := sha1.Sum([]byte("folder=uploads&timestamp=1700000000" + "test-secret"))
	expected := hex.EncodeToString(sum[:])

	got := signParams(map[string]string{
		"timestamp": "1700000000",
		"folder":    "uploads",
		"empty":     "",
	}, "test-secret")

	assert.Equal(t, expected, got)
}
