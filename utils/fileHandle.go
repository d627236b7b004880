package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"learnhub/config"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const maxEvidenceSize = 5 << 20

var ErrUnsupportedEvidence = errors.New("evidence must be a png, jpeg, webp or pdf file under 5MB")

var evidenceTypes = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".pdf":  true,
}

// EvidenceStore keeps payment screenshots and resumes and hands back a
// stable reference URL.
type EvidenceStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// NewEvidenceStore picks the remote collector when one is configured.
func NewEvidenceStore() EvidenceStore {
	cfg := config.AppConfig
	if cfg.EvidenceUploadURL != "" {
		return NewRemoteEvidenceStore(cfg.EvidenceUploadURL)
	}
	return &LocalEvidenceStore{Dir: cfg.EvidenceDir, PublicPrefix: "/uploads/evidence"}
}

func checkEvidence(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !evidenceTypes[ext] || file.Size > maxEvidenceSize {
		return "", ErrUnsupportedEvidence
	}
	return ext, nil
}

// LocalEvidenceStore writes uploads under Dir.
type LocalEvidenceStore struct {
	Dir          string
	PublicPrefix string
}

func (s *LocalEvidenceStore) Upload(_ context.Context, file *multipart.FileHeader) (string, error) {
	if _, err := checkEvidence(file); err != nil {
		return "", err
	}
	path, err := SaveUploadedFile(file, s.Dir)
	if err != nil {
		return "", err
	}
	return s.PublicPrefix + "/" + filepath.Base(path), nil
}

func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Unique, unguessable file name
	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := time.Now().Format("20060102") + "-" + uuid.NewString() + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filePath, nil
}

// RemoteEvidenceStore forwards uploads to an external collector that answers
// with {"url": "..."}.
type RemoteEvidenceStore struct {
	client *resty.Client
	url    string
}

func NewRemoteEvidenceStore(url string) *RemoteEvidenceStore {
	return &RemoteEvidenceStore{
		client: resty.New().SetTimeout(30 * time.Second),
		url:    url,
	}
}

func (s *RemoteEvidenceStore) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := checkEvidence(file)
	if err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	var result struct {
		URL string `json:"url"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", uuid.NewString()+ext, src).
		SetResult(&result).
		Post(s.url)
	if err != nil {
		return "", fmt.Errorf("upload evidence: %w", err)
	}
	if resp.IsError() || result.URL == "" {
		return "", fmt.Errorf("upload evidence: status %d: %s", resp.StatusCode(), resp.String())
	}
	return result.URL, nil
}
