package integrity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"page-store/feature/pages"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPages bounds the listing of one document.
const MaxPages = 10000

// Lister lists keys under a prefix. *pages.Manager satisfies it.
type Lister interface {
	List(ctx context.Context, prefix string, maxKeys int) ([]string, error)
}

// Report describes the stored pages of one document.
type Report struct {
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	// Pages are the stored page numbers in ascending order.
	Pages []int `json:"pages"`
	Count int   `json:"count"`
	// Highest is the largest stored page number, 0 when nothing is stored.
	Highest int `json:"highest"`
	// Missing lists page numbers between 1 and Highest that are not stored,
	// scanning no further than MaxPages.
	Missing []int `json:"missing"`
	// Foreign lists keys under the document prefix that are not page keys of it.
	Foreign []string `json:"foreign"`
	// Truncated is set when the listing or the gap scan hit MaxPages.
	Truncated bool `json:"truncated"`
}

// Complete reports whether at least one page is stored and no page is missing.
func (r *Report) Complete() bool {
	return r.Count > 0 && len(r.Missing) == 0
}

// Service checks the page sequences of grouped uploads.
type Service struct {
	lister Lister
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(lister Lister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		lister: lister,
		logger: logger,
	}
}

// CheckDocument lists the pages stored for a session/file pair and reports gaps.
func (s *Service) CheckDocument(ctx context.Context, sessionID uuid.UUID, fileName string) (*Report, error) {
	name := strings.TrimSpace(fileName)
	if sessionID == uuid.Nil || name == "" {
		return nil, fmt.Errorf("%w: session id and file name are required", pages.ErrInvalidArgument)
	}

	prefix := pages.Prefix(sessionID, name)
	keys, err := s.lister.List(ctx, prefix, MaxPages)
	if err != nil {
		return nil, err
	}

	report := &Report{
		SessionID: sessionID.String(),
		FileName:  name,
		Pages:     []int{},
		Missing:   []int{},
		Foreign:   []string{},
		Truncated: len(keys) >= MaxPages,
	}

	seen := make(map[int]bool, len(keys))
	for _, key := range keys {
		pk, err := pages.ParseKey(key)
		if err != nil || pk.SessionID != sessionID || pk.FileName != name {
			report.Foreign = append(report.Foreign, key)
			continue
		}
		seen[pk.Page] = true
		report.Pages = append(report.Pages, pk.Page)
		if pk.Page > report.Highest {
			report.Highest = pk.Page
		}
	}
	sort.Ints(report.Pages)
	report.Count = len(report.Pages)

	// The gap scan stops at MaxPages; a stray huge page number must not size it.
	end := report.Highest
	if end > MaxPages {
		end = MaxPages + 1
		report.Truncated = true
	}
	for page := 1; page < end; page++ {
		if !seen[page] {
			report.Missing = append(report.Missing, page)
		}
	}

	l := s.logger.With(zap.String("session", report.SessionID), zap.String("file", name))
	if report.Complete() && len(report.Foreign) == 0 {
		l.Info("Document is complete", zap.Int("pages", report.Count))
	} else {
		l.Warn("Document has integrity issues",
			zap.Int("pages", report.Count),
			zap.Ints("missing", report.Missing),
			zap.Strings("foreign", report.Foreign),
		)
	}
	return report, nil
}
