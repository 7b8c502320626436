package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBadExtension = errors.New("unsupported file extension")
	ErrFileTooLarge = errors.New("file exceeds the size limit")
)

const maxUploadBytes = 5 << 20 // 5MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadService stores admin-uploaded product images under the media
// directory and hands back the public URL.
type UploadService struct {
	mediaDir string
	baseURL  string
}

func NewUploadService(mediaDir, baseURL string) *UploadService {
	return &UploadService{
		mediaDir: mediaDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

func (s *UploadService) SaveImage(fh *multipart.FileHeader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		return nil, ErrBadExtension
	}
	if fh.Size > maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	relDir := filepath.Join("uploads", "products")
	if err := os.MkdirAll(filepath.Join(s.mediaDir, relDir), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	relPath := filepath.Join(relDir, name)

	dst, err := os.Create(filepath.Join(s.mediaDir, relPath))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	urlPath := "/media/" + filepath.ToSlash(relPath)
	return &UploadResult{
		URL:  s.baseURL + urlPath,
		Path: filepath.ToSlash(relPath),
	}, nil
}
