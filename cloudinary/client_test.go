package cloudinary_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"cloudreel/media-api/cloudinary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Known vector from the Cloudinary signature documentation.
func TestSignParams(t *testing.T) {
	sig := cloudinary.SignParams(map[string]string{
		"eager":     "w_400,h_300,c_pad|w_260,h_200,c_crop",
		"public_id": "sample_image",
		"timestamp": "1315060510",
	}, "abcd")

	assert.Equal(t, "bfd09f95f331f558cbd1320e67aa8d488770583e", sig)
}

func TestUploadMissingCredentials(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := &cloudinary.Client{
		CloudName: "demo",
		APIKey:    "key",
		BaseURL:   srv.URL,
		HTTP:      srv.Client(),
	}

	_, err := c.Upload(context.Background(), bytes.NewReader([]byte("payload")), cloudinary.UploadOptions{
		ResourceType: "video",
	})
	require.ErrorIs(t, err, cloudinary.ErrMissingCredentials)
	assert.Zero(t, hits.Load(), "no network call may happen without credentials")
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/video/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(10<<20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "video-uploads", r.FormValue("folder"))
		assert.Equal(t, "q_auto/f_mp4", r.FormValue("transformation"))
		assert.NotEmpty(t, r.FormValue("timestamp"))

		expected := cloudinary.SignParams(map[string]string{
			"folder":         r.FormValue("folder"),
			"timestamp":      r.FormValue("timestamp"),
			"transformation": r.FormValue("transformation"),
		}, "secret")
		assert.Equal(t, expected, r.FormValue("signature"))

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		payload, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), payload)

		json.NewEncoder(w).Encode(map[string]any{
			"public_id": "abc123",
			"bytes":     4000000,
			"duration":  12.5,
		})
	}))
	defer srv.Close()

	c := &cloudinary.Client{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   srv.URL,
		HTTP:      srv.Client(),
	}

	res, err := c.Upload(context.Background(), bytes.NewReader([]byte("payload")), cloudinary.UploadOptions{
		ResourceType:   "video",
		Folder:         "video-uploads",
		Transformation: "q_auto/f_mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", res.PublicID)
	assert.Equal(t, int64(4000000), res.Bytes)
	assert.Equal(t, 12.5, res.Duration)
}

func TestUploadRemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Invalid image file"},
		})
	}))
	defer srv.Close()

	c := &cloudinary.Client{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   srv.URL,
		HTTP:      srv.Client(),
	}

	_, err := c.Upload(context.Background(), bytes.NewReader([]byte("x")), cloudinary.UploadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestUploadDefaultsToImageResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"public_id": "img1", "bytes": 10})
	}))
	defer srv.Close()

	c := &cloudinary.Client{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   srv.URL,
		HTTP:      srv.Client(),
	}

	res, err := c.Upload(context.Background(), bytes.NewReader([]byte("x")), cloudinary.UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "img1", res.PublicID)
	assert.Zero(t, res.Duration)
}
