// Package service persists uploaded audio to the filesystem and removes it
// again once a job is done with it. Grounded on the teacher's
// internal/service/file_service.go, trimmed to the two operations C7
// actually exercises (C6 removes a finished job's file with os.Remove
// directly): every job owns exactly one temp file from
// admission through deletion (spec.md §3 TranscriptionJob), so there is no
// directory-tree management or read-back path to carry forward.
package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileService persists one uploaded audio file per call and removes it on
// request. A fresh UUID-based name avoids collisions between concurrently
// queued jobs sharing destDir.
type FileService interface {
	SaveUpload(file *multipart.FileHeader, destDir string) (string, error)
	RemoveFile(path string) error
}

type fileService struct{}

// NewFileService returns the filesystem-backed implementation.
func NewFileService() FileService {
	return &fileService{}
}

func (s *fileService) SaveUpload(fileHeader *multipart.FileHeader, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory %s: %w", destDir, err)
	}

	filePath := filepath.Join(destDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("opening uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("creating temp file %s: %w", filePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("persisting upload to %s: %w", filePath, err)
	}

	return filePath, nil
}

func (s *fileService) RemoveFile(path string) error {
	return os.Remove(path)
}
