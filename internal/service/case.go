package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"evidenceapi/internal/model"
	"evidenceapi/internal/repository"
	"evidenceapi/internal/storage"
)

// Upload is one raw file handed over by the transport layer.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CaseListResult is the service-level DTO for paginated cases.
type CaseListResult struct {
	Items []model.Case `json:"data"`
	Total int          `json:"total"`
}

// CaseService defines the use cases for cases and their evidence files.
type CaseService interface {
	// CreateCase creates a case with a generated ID and storage label. Names need not be unique.
	CreateCase(ctx context.Context, name string) (*model.Case, error)

	// GetCase returns a snapshot of a case by ID.
	GetCase(ctx context.Context, id string) (*model.Case, error)

	// ListCases returns cases in creation order using limit/offset.
	ListCases(ctx context.Context, limit, offset int) (*CaseListResult, error)

	// AddEvidence stores the raw bytes of each upload and appends NOT_STARTED entries,
	// in upload order, to the case. It returns the new entries.
	AddEvidence(ctx context.Context, caseID string, uploads []Upload) ([]model.EvidenceFile, error)

	// ReplaceEvidence swaps a whole evidence record by ID; unknown IDs are ignored.
	ReplaceEvidence(ctx context.Context, caseID string, ev model.EvidenceFile) error

	// OpenContent streams the raw bytes of an evidence file.
	OpenContent(ctx context.Context, caseID, evidenceID string) (io.ReadCloser, *model.EvidenceFile, error)

	// ContentURL returns a time-limited URL for the raw bytes of an evidence file.
	ContentURL(ctx context.Context, caseID, evidenceID string, expiry time.Duration) (string, error)
}

// caseService is a concrete implementation of CaseService.
type caseService struct {
	store storage.Storage
	repo  repository.CaseRepository
	now   func() time.Time
}

// NewCaseService constructs a new CaseService.
func NewCaseService(store storage.Storage, repo repository.CaseRepository) CaseService {
	return &caseService{store: store, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChar   = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases name, turns whitespace runs into hyphens and strips everything
// outside [a-z0-9-].
func Slugify(name string) string {
	s := whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
	return nonSlugChar.ReplaceAllString(s, "")
}

// StorageLabel is the display-only storage location of a case.
func StorageLabel(name string, at time.Time) string {
	return fmt.Sprintf("dee-%s-%d", Slugify(name), at.UnixMilli())
}

func (s *caseService) CreateCase(ctx context.Context, name string) (*model.Case, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := s.now()
	c := &model.Case{
		ID:           "case-" + uuid.NewString(),
		Name:         name,
		CreatedAt:    now,
		StorageLabel: StorageLabel(name, now),
		Evidence:     []model.EvidenceFile{},
	}
	return s.repo.Create(ctx, c)
}

func (s *caseService) GetCase(ctx context.Context, id string) (*model.Case, error) {
	if id == "" {
		return nil, ErrCaseNotFound
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCases returns paginated cases without exposing repository types.
func (s *caseService) ListCases(ctx context.Context, limit, offset int) (*CaseListResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &CaseListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *caseService) AddEvidence(ctx context.Context, caseID string, uploads []Upload) ([]model.EvidenceFile, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}
	c, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	inUse := make(map[string]bool, len(c.Evidence))
	for _, ev := range c.Evidence {
		inUse[ev.ContentRef] = true
	}

	files := make([]model.EvidenceFile, 0, len(uploads))
	var written []string
	rollback := func(cause error) error {
		for _, key := range written {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				return fmt.Errorf("%w; rollback delete failed: %v", cause, delErr)
			}
		}
		return cause
	}

	for _, up := range uploads {
		if up.Reader == nil {
			return nil, rollback(ErrReaderNil)
		}
		data, err := io.ReadAll(up.Reader)
		if err != nil {
			return nil, rollback(fmt.Errorf("read upload %s: %w", up.Filename, err))
		}
		contentType := up.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		key := storage.ContentKey(caseID, data, up.Filename)
		if _, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
			Size:        int64(len(data)),
			ContentType: contentType,
			Metadata:    map[string]string{"original-filename": up.Filename},
		}); err != nil {
			return nil, rollback(fmt.Errorf("upload to storage: %w", err))
		}
		if !inUse[key] {
			inUse[key] = true
			written = append(written, key)
		}

		files = append(files, model.EvidenceFile{
			ID:         "ev-" + uuid.NewString(),
			Name:       up.Filename,
			Type:       contentType,
			Size:       int64(len(data)),
			ContentRef: key,
			UploadedAt: s.now(),
			Status:     model.StatusNotStarted,
		})
	}

	if err := s.repo.AppendEvidence(ctx, caseID, files...); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrCaseNotFound
		}
		return nil, rollback(fmt.Errorf("append evidence: %w", err))
	}
	return files, nil
}

func (s *caseService) ReplaceEvidence(ctx context.Context, caseID string, ev model.EvidenceFile) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return s.repo.ReplaceEvidence(ctx, caseID, ev)
}

func (s *caseService) findEvidence(ctx context.Context, caseID, evidenceID string) (*model.EvidenceFile, error) {
	c, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	ev := c.FindEvidence(evidenceID)
	if ev == nil {
		return nil, ErrEvidenceNotFound
	}
	return ev, nil
}

func (s *caseService) OpenContent(ctx context.Context, caseID, evidenceID string) (io.ReadCloser, *model.EvidenceFile, error) {
	ev, err := s.findEvidence(ctx, caseID, evidenceID)
	if err != nil {
		return nil, nil, err
	}
	if ev.ContentRef == "" {
		return nil, nil, ErrEvidenceNotFound
	}
	rc, _, err := s.store.Get(ctx, ev.ContentRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrEvidenceNotFound
		}
		return nil, nil, fmt.Errorf("open content: %w", err)
	}
	return rc, ev, nil
}

func (s *caseService) ContentURL(ctx context.Context, caseID, evidenceID string, expiry time.Duration) (string, error) {
	ev, err := s.findEvidence(ctx, caseID, evidenceID)
	if err != nil {
		return "", err
	}
	if ev.ContentRef == "" {
		return "", ErrEvidenceNotFound
	}
	u, err := s.store.PresignGet(ctx, ev.ContentRef, expiry)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrEvidenceNotFound
		}
		return "", fmt.Errorf("presign content: %w", err)
	}
	return u, nil
}
