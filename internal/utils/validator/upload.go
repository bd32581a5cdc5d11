package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// UploadInfo describes an accepted upload.
type UploadInfo struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mimeType"`
	Extension string `json:"extension"`
	Hash      string `json:"hash"`
}

// UploadValidator checks incoming documents before they enter the pipeline:
// size cap, extension allow-list and sniffed MIME type agreement.
type UploadValidator struct {
	maxSize int64
	allowed map[string][]string
	logger  logger.Logger
}

func New(maxSizeMB int, log logger.Logger) *UploadValidator {
	return &UploadValidator{
		maxSize: int64(maxSizeMB) << 20,
		allowed: map[string][]string{
			".pdf":  {"application/pdf"},
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
		},
		logger: log,
	}
}

// Validate inspects the upload without consuming the caller's handle.
func (v *UploadValidator) Validate(header *multipart.FileHeader) (*UploadInfo, error) {
	info := &UploadInfo{
		Filename:  header.Filename,
		Size:      header.Size,
		Extension: strings.ToLower(filepath.Ext(header.Filename)),
	}

	if header.Size > v.maxSize {
		return nil, fmt.Errorf("file exceeds the %d byte limit", v.maxSize)
	}

	mimes, ok := v.allowed[info.Extension]
	if !ok {
		return nil, fmt.Errorf("file type %s is not allowed", info.Extension)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	info.MimeType = http.DetectContentType(head[:n])

	matched := false
	for _, m := range mimes {
		if strings.HasPrefix(info.MimeType, m) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("content type %s does not match extension %s", info.MimeType, info.Extension)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}
	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return nil, fmt.Errorf("failed to hash upload: %w", err)
	}
	info.Hash = hex.EncodeToString(hash.Sum(nil))

	v.logger.Debug("Upload accepted",
		logger.String("filename", info.Filename),
		logger.String("mimeType", info.MimeType),
		logger.String("hash", info.Hash),
	)
	return info, nil
}
