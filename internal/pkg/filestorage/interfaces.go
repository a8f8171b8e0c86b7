package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores an upload under subPath and returns the public,
	// forward-slash path that is persisted in the database.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(storedPath string) error

	// GetFullPath returns the filesystem path for a stored path.
	GetFullPath(storedPath string) string
}

// Upload sub-directories.
const (
	ProfileImageDir         = "profile-images"
	BusinessProfileImageDir = "business-images"
	MediaGalleryDir         = "media-gallery"
)
