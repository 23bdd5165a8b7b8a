package app

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/InQaaaaGit/seo_image.git/internal/config"
	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) (*App, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.UploadDir = filepath.Join(t.TempDir(), "uploads")
	if mutate != nil {
		mutate(cfg)
	}

	app, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, app.Close())
	})
	return app, cfg
}

func uploadForm(t *testing.T, keyword string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("text_1", keyword))
	if withFile {
		var img bytes.Buffer
		require.NoError(t, png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 5, 5))))
		part, err := mw.CreateFormFile("file", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(img.Bytes())
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestNewApp(t *testing.T) {
	app, cfg := newTestApp(t, nil)
	assert.NotNil(t, app.router)
	assert.NotNil(t, app.handler)
	assert.NotNil(t, app.service)

	// Каталог загрузок создается при старте
	info, err := os.Stat(cfg.UploadDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	server := app.GetServer()
	assert.Equal(t, cfg.ServerAddress, server.Addr)
	assert.NotNil(t, server.Handler)
}

func TestNewApp_FileJournal(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "uploads.jsonl")
	app, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.JournalFilePath = journalPath
	})

	body, contentType := uploadForm(t, "garden", true)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data, err := os.ReadFile(journalPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"keyword":"garden"`)
}

func TestNewApp_InvalidUploadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := config.Default()
	cfg.UploadDir = filepath.Join(file, "uploads")
	_, err := NewApp(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRoutes_EndToEnd(t *testing.T) {
	app, cfg := newTestApp(t, nil)
	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Image server — OK", string(text))

	resp, err = http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Все адреса загрузки ведут к одному обработчику
	var savedNames []string
	for _, path := range []string{"/upload", "/submit", "/webhook"} {
		body, contentType := uploadForm(t, "Blue Hat", true)
		resp, err := http.Post(srv.URL+path, contentType, body)
		require.NoError(t, err)

		var upload models.UploadResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&upload))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Len(t, upload.Results, 1)
		savedNames = append(savedNames, upload.Results[0].SavedName)
	}

	entries, err := os.ReadDir(cfg.UploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	resp, err = http.Get(srv.URL + "/api/uploads?limit=2")
	require.NoError(t, err)
	var records []models.UploadRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	resp.Body.Close()
	require.Len(t, records, 2)
	assert.Equal(t, savedNames[2], records[0].SavedName)

	resp, err = http.Get(srv.URL + "/api/uploads/" + savedNames[0])
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Запрос без файлов
	body, contentType := uploadForm(t, "Blue Hat", false)
	resp, err = http.Post(srv.URL+"/submit", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutes_DebugIsDisabledByDefault(t *testing.T) {
	app, _ := newTestApp(t, nil)

	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_DebugEnabled(t *testing.T) {
	app, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.EnableDebug = true
	})

	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug?keyword=x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_CORSPreflight(t *testing.T) {
	app, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "https://example.tilda.ws")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_CompressedJSON(t *testing.T) {
	app, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
