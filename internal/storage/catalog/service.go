package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/jsonldb"
)

// Service owns the three catalog tables.
type Service struct {
	personas     *jsonldb.Table[*Persona]
	propositions *jsonldb.Table[*ValueProposition]
	models       *jsonldb.Table[*BusinessModel]
}

// NewService opens (or creates) the catalog tables under rootDir/db.
func NewService(rootDir string) (*Service, error) {
	dbDir := filepath.Join(rootDir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	personas, err := jsonldb.NewTable[*Persona](filepath.Join(dbDir, "personas.jsonl"))
	if err != nil {
		return nil, err
	}
	propositions, err := jsonldb.NewTable[*ValueProposition](filepath.Join(dbDir, "value_propositions.jsonl"))
	if err != nil {
		return nil, err
	}
	models, err := jsonldb.NewTable[*BusinessModel](filepath.Join(dbDir, "business_models.jsonl"))
	if err != nil {
		return nil, err
	}

	return &Service{personas: personas, propositions: propositions, models: models}, nil
}

// ListPersonas returns all personas in creation order.
func (s *Service) ListPersonas() []*Persona {
	return collect(s.personas)
}

// ListPropositions returns all value propositions in creation order.
func (s *Service) ListPropositions() []*ValueProposition {
	return collect(s.propositions)
}

// ListModels returns all business models in creation order.
func (s *Service) ListModels() []*BusinessModel {
	return collect(s.models)
}

func collect[T jsonldb.Row[T]](t *jsonldb.Table[T]) []T {
	out := make([]T, 0, t.Len())
	for row := range t.Iter(0) {
		out = append(out, row)
	}
	return out
}

// CreatePersona stores a new persona, assigning ID and timestamps.
func (s *Service) CreatePersona(p *Persona) (*Persona, error) {
	stored := p.Clone()
	stamp(&stored.ID, &stored.Created, &stored.Modified)
	if stored.Status == "" {
		stored.Status = StatusDraft
	}
	if err := s.personas.Append(stored); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// CreateProposition stores a new value proposition, assigning ID and timestamps.
func (s *Service) CreateProposition(v *ValueProposition) (*ValueProposition, error) {
	stored := v.Clone()
	stamp(&stored.ID, &stored.Created, &stored.Modified)
	if stored.Fit.Stage == "" {
		stored.Fit.Stage = StageIdea
	}
	if err := s.propositions.Append(stored); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// CreateModel stores a new business model, assigning ID and timestamps.
func (s *Service) CreateModel(m *BusinessModel) (*BusinessModel, error) {
	stored := m.Clone()
	stamp(&stored.ID, &stored.Created, &stored.Modified)
	if stored.Maturity == "" {
		stored.Maturity = MaturityConcept
	}
	if err := s.models.Append(stored); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// GetPersona returns the persona with the given ID, or nil.
func (s *Service) GetPersona(id ksid.ID) *Persona { return s.personas.Get(id) }

// GetProposition returns the proposition with the given ID, or nil.
func (s *Service) GetProposition(id ksid.ID) *ValueProposition { return s.propositions.Get(id) }

// GetModel returns the model with the given ID, or nil.
func (s *Service) GetModel(id ksid.ID) *BusinessModel { return s.models.Get(id) }

// Counts returns per-source record counts for health reporting.
func (s *Service) Counts() map[string]int {
	return map[string]int{
		"personas":           s.personas.Len(),
		"value-propositions": s.propositions.Len(),
		"business-models":    s.models.Len(),
	}
}

func stamp(id *ksid.ID, created, modified *time.Time) {
	if id.IsZero() {
		*id = ksid.NewID()
	}
	now := time.Now()
	*created = now
	*modified = now
}
