package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
)

// MaxFileSize is the upload limit in bytes.
const MaxFileSize = 100 * 1024 * 1024

var (
	illegalFileNameRe = regexp.MustCompile(`[<>:"/\\|?*]`)

	validFileTypes = map[string]struct{}{
		"txt": {}, "html": {}, "docx": {}, "pdf": {},
	}
)

// FileMetadata describes the stored object backing a book, 1:1 with its
// parent. It is not independently access-controlled; its access rule is
// inherited entirely from the book.
type FileMetadata struct {
	ID         int64
	FileName   string
	FileType   string
	Size       int64
	BookID     int64
	StorageKey string
	UploadedAt time.Time
}

// NewFileMetadata validates fields and returns an unsaved record.
func NewFileMetadata(fileName, fileType string, size int64, bookID int64, storageKey string) (*FileMetadata, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name cannot be empty", common.ErrValidation)
	}
	if illegalFileNameRe.MatchString(fileName) {
		return nil, fmt.Errorf("%w: file name contains illegal characters", common.ErrValidation)
	}
	if _, ok := validFileTypes[fileType]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", common.ErrValidation, fileType)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", common.ErrValidation)
	}
	if size > MaxFileSize {
		return nil, fmt.Errorf("%w: file size exceeds maximum allowed (100 MB)", common.ErrValidation)
	}
	if storageKey == "" {
		return nil, fmt.Errorf("%w: storage key cannot be empty", common.ErrValidation)
	}
	return &FileMetadata{
		FileName:   fileName,
		FileType:   fileType,
		Size:       size,
		BookID:     bookID,
		StorageKey: storageKey,
	}, nil
}
