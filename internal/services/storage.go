package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/models"
)

// BlobStore is the résumé file store.
type BlobStore interface {
	Save(data []byte, name string) (string, error)
	Read(path string) ([]byte, error)
	Delete(path string) error
}

// StorageService adds upload handling on top of the blob store: résumé PDFs
// kept under the résumé directory and answer videos parked in a temp
// directory until the oracle has seen them.
type StorageService interface {
	BlobStore
	SaveResume(file *multipart.FileHeader, username string) (string, error)
	SaveTempMedia(file *multipart.FileHeader) (models.MediaRef, error)
	ReleaseMedia(media models.MediaRef)
	EnsureDirs() error
}

type storageService struct {
	resumePath   string
	mediaPath    string
	maxFileSize  int64
	maxVideoSize int64
}

func NewStorageService(resumePath, mediaPath string, maxFileSize, maxVideoSize int64) StorageService {
	return &storageService{
		resumePath:   resumePath,
		mediaPath:    mediaPath,
		maxFileSize:  maxFileSize,
		maxVideoSize: maxVideoSize,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, dir := range []string{s.resumePath, s.mediaPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Save implements BlobStore. name must be a bare file name.
func (s *storageService) Save(data []byte, name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid blob name: %q", name)
	}

	filePath := filepath.Join(s.resumePath, name)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filePath, nil
}

// Read implements BlobStore.
func (s *storageService) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete implements BlobStore. Deleting a missing file is not an error.
func (s *storageService) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SaveResume stores an uploaded PDF as <username>_<timestamp>_<uuid>.pdf and
// returns its path.
func (s *storageService) SaveResume(file *multipart.FileHeader, username string) (string, error) {
	data, err := readUpload(file, s.maxFileSize)
	if err != nil {
		return "", err
	}

	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return "", fmt.Errorf("%w: %s is %s, expected a PDF", ErrUnsupportedMedia, file.Filename, mt.String())
	}

	name := fmt.Sprintf("%s_%s_%s.pdf", safeName(username), time.Now().UTC().Format("20060102150405"), uuid.New().String())
	return s.Save(data, name)
}

// SaveTempMedia parks an answer video for submission to the oracle. The
// caller must ReleaseMedia on every path.
func (s *storageService) SaveTempMedia(file *multipart.FileHeader) (models.MediaRef, error) {
	data, err := readUpload(file, s.maxVideoSize)
	if err != nil {
		return models.MediaRef{}, err
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "video/") {
		return models.MediaRef{}, fmt.Errorf("%w: %s is %s, expected a video", ErrUnsupportedMedia, file.Filename, mt.String())
	}

	filePath := filepath.Join(s.mediaPath, uuid.New().String()+mt.Extension())
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return models.MediaRef{}, fmt.Errorf("failed to save media: %w", err)
	}

	// strip parameters such as "; codecs=..." from the detected type
	mimeType := strings.TrimSpace(strings.SplitN(mt.String(), ";", 2)[0])
	return models.MediaRef{Path: filePath, MIMEType: mimeType}, nil
}

func (s *storageService) ReleaseMedia(media models.MediaRef) {
	if media.Path == "" {
		return
	}
	_ = s.Delete(media.Path)
}

func readUpload(file *multipart.FileHeader, limit int64) ([]byte, error) {
	if limit > 0 && file.Size > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, file.Filename, limit)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func safeName(s string) string {
	return unsafeNameChars.ReplaceAllString(s, "_")
}
