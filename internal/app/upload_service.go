package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"regexp"

	"portfolio-api/internal/repository"
)

var safeExt = regexp.MustCompile(`^\.[A-Za-z0-9]{1,16}$`)

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadFile stores a file for the project and appends its stored name to
// the project's file list. Oversized files are rejected before anything is
// written.
func (s *ProjectService) UploadFile(ctx context.Context, requesterID, projectID string, in UploadInput) (string, error) {
	project, err := ownedProject(ctx, s.projects, requesterID, projectID)
	if err != nil {
		return "", err
	}
	if in.Body == nil {
		return "", ErrInvalidInput
	}
	if in.Size > s.maxFileSize {
		return "", ErrPayloadTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(in.Body, s.maxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload failed: %w", err)
	}
	if int64(len(content)) > s.maxFileSize {
		return "", ErrPayloadTooLarge
	}

	name := project.ID + "_" + newID() + uploadExt(in.Filename)
	if err := s.files.Save(ctx, name, bytes.NewReader(content), int64(len(content)), in.ContentType); err != nil {
		return "", err
	}

	if err := s.projects.AppendFile(ctx, project.ID, name, nowUTC()); err != nil {
		if delErr := s.files.Delete(ctx, name); delErr != nil {
			log.Printf("remove stored upload %s failed: %v", name, delErr)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProjectNotFound
		}
		return "", err
	}
	return name, nil
}

func uploadExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if !safeExt.MatchString(ext) {
		return ""
	}
	return ext
}
