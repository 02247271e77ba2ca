package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plik-backend/internal/domains/upload/service"
	"plik-backend/internal/infrastructure/storage"
	"plik-backend/internal/shared/response"
)

type memStore struct {
	keys []string
}

func (m *memStore) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	m.keys = append(m.keys, key)
	return "https://cdn.plik.ca/" + key, nil
}

func setupRouter() (*gin.Engine, *memStore) {
	gin.SetMode(gin.TestMode)
	store := &memStore{}
	h := NewUploadHandler(service.NewUploadService(store, storage.NewImageProcessor()))

	r := gin.New()
	r.POST("/api/v1/upload-image", h.UploadImage)
	return r, store
}

type part struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("alt", "cover"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUploadImage_MultipleFiles(t *testing.T) {
	r, store := setupRouter()
	img := pngBytes(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t,
		part{"files", "one.png", "image/png", img},
		part{"files", "two.png", "image/png", img},
	))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Len(t, data["urls"], 2)
	assert.Len(t, data["thumbnails"], 2)
	assert.Equal(t, data["urls"].([]interface{})[0], data["url"])
	assert.Len(t, store.keys, 4)
}

func TestUploadImage_SingleFileField(t *testing.T) {
	r, _ := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, part{"file", "one.png", "image/png", pngBytes(t)}))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadImage_NoFiles(t *testing.T) {
	r, _ := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No files provided", decode(t, w).Error.Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload-image", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImage_InvalidType(t *testing.T) {
	r, store := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, part{"files", "notes.txt", "text/plain", []byte("hello")}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File notes.txt has invalid type. Only PNG and JPG are allowed.", decode(t, w).Error.Message)
	assert.Empty(t, store.keys)
}

func TestUploadImage_TooLarge(t *testing.T) {
	r, _ := setupRouter()
	big := append(pngBytes(t), make([]byte, storage.MaxImageSize)...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, part{"files", "huge.png", "image/png", big}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File huge.png is too large. Maximum size is 500KB.", decode(t, w).Error.Message)
}
