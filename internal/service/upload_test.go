package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(16<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "http://localhost:8000/")

	fh := multipartFile(t, "lemon.PNG", []byte("fake image bytes"))
	result, err := svc.SaveImage(fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.URL, "http://localhost:8000/media/uploads/products/"))
	assert.True(t, strings.HasSuffix(result.Path, ".png"))
	assert.True(t, strings.HasPrefix(result.Path, "uploads/products/"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Path)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)

	// A second upload of the same name gets a fresh filename.
	again, err := svc.SaveImage(multipartFile(t, "lemon.PNG", []byte("other")))
	require.NoError(t, err)
	assert.NotEqual(t, result.Path, again.Path)
}

func TestSaveImageRejectsBadExtension(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "http://localhost:8000")

	for _, name := range []string{"a.exe", "a.svg", "a", "a.png.sh"} {
		_, err := svc.SaveImage(multipartFile(t, name, []byte("x")))
		assert.ErrorIs(t, err, ErrBadExtension, name)
	}
}

func TestSaveImageRejectsOversize(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "http://localhost:8000")

	big := bytes.Repeat([]byte("a"), maxUploadBytes+1)
	_, err := svc.SaveImage(multipartFile(t, "big.jpg", big))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
