package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// DefaultPublicPrefix is the URL prefix uploads are served under.
const DefaultPublicPrefix = "uploads"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath     string // root directory on disk
	publicPrefix string // first segment of every stored path
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, publicPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if publicPrefix == "" {
		publicPrefix = DefaultPublicPrefix
	}

	return &LocalStorage{
		basePath:     basePath,
		publicPrefix: strings.Trim(domain.NormalizePath(publicPrefix), "/"),
	}, nil
}

// BasePath returns the directory files are written to.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// PublicPrefix returns the first segment of stored paths.
func (ls *LocalStorage) PublicPrefix() string {
	return ls.publicPrefix
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath = strings.Trim(domain.NormalizePath(subPath), "/")
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, filepath.FromSlash(subPath))
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := path.Join(ls.publicPrefix, subPath, uniqueFilename)

	logger.Debug().Str("filename", fileHeader.Filename).Str("stored_path", storedPath).Msg("File saved")
	return storedPath, nil
}

// DeleteFile removes a file from the storage filesystem.
// It accepts the file path as stored in the database (e.g. uploads/media-gallery/x.jpg).
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(storedPath string) error {
	if strings.TrimSpace(storedPath) == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(storedPath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", storedPath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Debug().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// GetFullPath maps a stored path to its location under basePath. Paths that
// would escape basePath resolve to "".
func (ls *LocalStorage) GetFullPath(storedPath string) string {
	p := path.Clean("/" + domain.NormalizePath(strings.TrimSpace(storedPath)))
	p = strings.TrimPrefix(p, "/")
	if rest, ok := strings.CutPrefix(p, ls.publicPrefix+"/"); ok {
		p = rest
	}
	if p == "" || p == "." || p == ls.publicPrefix {
		return ""
	}

	full := filepath.Join(ls.basePath, filepath.FromSlash(p))
	rel, err := filepath.Rel(ls.basePath, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return full
}
