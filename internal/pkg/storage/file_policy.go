package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// Ensure FilePolicyStore implements PolicyStore
var _ PolicyStore = (*FilePolicyStore)(nil)

// FilePolicyStore persists the sanction policy document as one JSON file.
type FilePolicyStore struct {
	path string
	mu   sync.Mutex
}

func NewFilePolicyStore(path string) *FilePolicyStore {
	return &FilePolicyStore{path: path}
}

func (s *FilePolicyStore) Load(ctx context.Context) (*models.PolicyDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// First run: write the default document so the operator has
		// something to edit.
		doc := &models.PolicyDocument{
			Settings:     models.DefaultSanctionPolicy(),
			SelectedBets: []models.SanctionedBet{},
		}
		if err := s.save(doc); err != nil {
			return nil, err
		}
		slog.Info("Created default sanction policy file", "path", s.path)
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var doc models.PolicyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	return &doc, nil
}

func (s *FilePolicyStore) Save(ctx context.Context, doc *models.PolicyDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *FilePolicyStore) save(doc *models.PolicyDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}
	return nil
}
