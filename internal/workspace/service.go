package workspace

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/internal/pdfdoc"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
	"github.com/brunomdrs/processo-extractor/pkg/storage"
)

const storeConcurrency = 4

// Service splits uploaded documents into page-range parts, stores the part
// payloads and registers them as workspace items.
type Service struct {
	ledger *Ledger
	store  storage.Storage
	pdf    *pdfdoc.Reader
	logger logger.Logger
}

func NewService(ledger *Ledger, store storage.Storage, pdf *pdfdoc.Reader, log logger.Logger) *Service {
	return &Service{ledger: ledger, store: store, pdf: pdf, logger: log}
}

// Split cuts the document into parts of pagesPerPart pages, stores each part
// and appends the items to the workspace in page order. The part payloads are
// stored concurrently; the items are only registered once every payload is
// durable.
func (s *Service) Split(ctx context.Context, name string, data []byte, pagesPerPart int) ([]models.WorkspaceItem, error) {
	pageCount, err := s.pdf.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read page count: %w", err)
	}

	parts, err := s.pdf.Split(data, pagesPerPart)
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}

	items := make([]models.WorkspaceItem, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(storeConcurrency)
	for i, part := range parts {
		items[i] = models.WorkspaceItem{
			ID:         uuid.New().String(),
			Name:       part.Name,
			StorageKey: "parts/" + uuid.New().String() + ".pdf",
			FirstPage:  part.Range.First,
			LastPage:   part.Range.Last,
			PageCount:  part.Range.Pages(),
			Status:     models.StatusIdle,
			Selected:   true,
			CreatedAt:  time.Now(),
		}
		item, payload := items[i], part.Data
		g.Go(func() error {
			if _, err := s.store.Store(gctx, bytes.NewReader(payload), item.StorageKey); err != nil {
				return fmt.Errorf("failed to store %s: %w", item.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.ledger.Add(items...)
	s.logger.Info("Document split into workspace",
		logger.String("name", name),
		logger.Int("pages", pageCount),
		logger.Int("parts", len(items)),
	)
	return items, nil
}

// Download returns a part's name and stored payload.
func (s *Service) Download(ctx context.Context, id string) (string, []byte, error) {
	item, ok := s.ledger.Get(id)
	if !ok {
		return "", nil, fmt.Errorf("workspace item not found: %s", id)
	}
	data, err := storage.ReadObject(ctx, s.store, item.StorageKey)
	if err != nil {
		return "", nil, err
	}
	return item.Name, data, nil
}

// Fetch loads a workspace payload by storage key.
func (s *Service) Fetch(ctx context.Context, key string) ([]byte, error) {
	return storage.ReadObject(ctx, s.store, key)
}
