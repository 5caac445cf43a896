package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloudreel/media-api/cloudinary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func buildImageForm(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="pic.png"`},
		"Content-Type":        {"image/png"},
	}
	fw, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestImageUpload(t *testing.T) {
	gw := &stubGateway{res: &cloudinary.UploadResult{PublicID: "img1", Bytes: 12}}
	repo := &stubRepo{}
	a := newTestAPI(t, gw, repo)

	body, ct := buildImageForm(t, pngMagic)

	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", ct)
	req.AddCookie(authCookie(t))

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"publicId":"img1"`)

	// Images never produce a database record
	assert.Zero(t, repo.inserts)
}

func TestImageUploadUnauthenticated(t *testing.T) {
	gw := &stubGateway{}
	a := newTestAPI(t, gw, &stubRepo{})

	body, ct := buildImageForm(t, pngMagic)

	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", ct)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, gw.calls)
}

func TestImageUploadMissingFile(t *testing.T) {
	gw := &stubGateway{}
	a := newTestAPI(t, gw, &stubRepo{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(authCookie(t))

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File not found!")
	assert.Zero(t, gw.calls)
}
