package matcher

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/docparse/bounds-matcher/config"
	"github.com/docparse/bounds-matcher/internal/pdftext"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// Service ties a document handle to a dispatcher for the handle's
// lifetime. The handle is opened once per service and shared read-only
// across all strategy invocations; Close releases it.
type Service struct {
	doc        services.Document
	dispatcher *Dispatcher
}

// NewService wraps an already-open document. The caller keeps ownership
// questions simple: whoever opened the document closes the service.
func NewService(doc services.Document, settings config.MatcherSettings) *Service {
	return &Service{
		doc:        doc,
		dispatcher: NewDispatcher(doc, settings),
	}
}

// Open opens the PDF at path and builds a matching service over it.
// A missing or unreadable document is fatal for the batch and is reported
// here, before any matching begins.
func Open(path string, settings config.MatcherSettings) (*Service, error) {
	doc, err := pdftext.Open(path, pdftext.WithCaseSensitiveSearch(settings.CaseSensitiveSearch))
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	return NewService(doc, settings), nil
}

// MatchEntity locates a single entity through the fallback chain.
func (s *Service) MatchEntity(entityName, entityType string) model.MatchedEntity {
	return s.dispatcher.MatchEntity(entityName, entityType)
}

// MatchAll runs the dispatcher over the entity list in input order and
// aggregates match statistics. Matching is total per entity, so one
// unmatched entity never aborts the batch; interrupting between entities
// leaves already-produced results valid.
func (s *Service) MatchAll(entities []model.Entity) model.BatchResult {
	matched := make([]model.MatchedEntity, 0, len(entities))
	statistics := model.MatchStatistics{
		TotalEntities:  len(entities),
		StrategiesUsed: make(map[string]int),
	}

	for _, entity := range entities {
		result := s.dispatcher.MatchEntity(entity.Name, entity.Type)
		matched = append(matched, result)

		statistics.StrategiesUsed[result.MatchStrategy]++
		switch {
		case result.Confidence > 0.5:
			statistics.Matched++
		case result.Confidence > 0:
			statistics.PartialMatched++
		default:
			statistics.Unmatched++
		}
	}

	return model.BatchResult{
		BatchID:         uuid.New().String(),
		MatchedEntities: matched,
		Statistics:      statistics,
	}
}

// Close releases the underlying document handle.
func (s *Service) Close() error {
	return s.doc.Close()
}
