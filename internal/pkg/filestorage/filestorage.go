package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// Upload kinds with their MIME allow-lists and size ceilings. Enforced before
// any bytes are written.
type Kind string

const (
	KindAvatar     Kind = "avatars"
	KindResume     Kind = "resumes"
	KindAttachment Kind = "attachments"
	KindListing    Kind = "listings"
)

var allowedMIME = map[Kind]map[string]bool{
	KindAvatar:     {"image/jpeg": true, "image/png": true, "image/webp": true},
	KindResume:     {"application/pdf": true},
	KindAttachment: {"image/jpeg": true, "image/png": true, "image/webp": true, "image/gif": true, "application/pdf": true},
	KindListing:    {"image/jpeg": true, "image/png": true, "image/webp": true},
}

var maxBytes = map[Kind]int64{
	KindAvatar:     2 << 20,
	KindResume:     5 << 20,
	KindAttachment: 10 << 20,
	KindListing:    5 << 20,
}

// Storage persists uploaded files. The local implementation stands in for the
// hosted object store.
type Storage interface {
	Save(fileHeader *multipart.FileHeader, kind Kind) (string, error)
	Delete(fileURL string) error
}

// LocalStorage saves files under a base path on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
	logger   zerolog.Logger
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL, when
// set, is prepended to returned file paths.
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath, baseURL: baseURL, logger: logger}, nil
}

// Validate checks the MIME type and byte size of an upload against the limits
// for kind. Fails before any write happens.
func Validate(fileHeader *multipart.FileHeader, kind Kind) error {
	if fileHeader == nil {
		return apperrors.NewValidationError("no file provided")
	}

	if max, ok := maxBytes[kind]; ok && fileHeader.Size > max {
		return apperrors.NewValidationError(fmt.Sprintf("file exceeds the maximum size of %d bytes", max))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	// Strip parameters like "; charset=..."
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	allowed, ok := allowedMIME[kind]
	if !ok || !allowed[strings.ToLower(contentType)] {
		return apperrors.NewValidationError(fmt.Sprintf("file type %q is not allowed", contentType))
	}

	return nil
}

// Save validates and persists an uploaded file, returning its accessible URL
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, kind Kind) (string, error) {
	if err := Validate(fileHeader, kind); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, string(kind))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// Unique filename to prevent collisions
	ext := filepath.Ext(fileHeader.Filename)
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessible := filepath.ToSlash(filepath.Join("uploads", string(kind), name))
	if ls.baseURL != "" {
		accessible = strings.TrimRight(ls.baseURL, "/") + "/" + string(kind) + "/" + name
	}

	ls.logger.Info().Str("filename", fileHeader.Filename).Str("savedAs", name).Msg("File saved")
	return accessible, nil
}

// Delete removes a stored file. Missing files are treated as already deleted;
// callers run this best-effort through the fire-and-forget helper.
func (ls *LocalStorage) Delete(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	name := filepath.Base(fileURL)
	kind := filepath.Base(filepath.Dir(fileURL))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	physical := filepath.Join(ls.basePath, kind, name)
	if _, err := os.Stat(physical); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(physical); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
