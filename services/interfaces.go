package services

import (
	"github.com/docparse/bounds-matcher/model"
)

// Span is one rendered text run on a page, carrying its text and its
// bounding rectangle already normalized to [0, 1] page fractions.
type Span struct {
	Text   string
	Bounds model.Bounds
}

// Page exposes read-only text access for one page of an open document.
// All bounds returned through this interface are normalized to the page
// dimensions and labeled with the page's 1-indexed number; implementations
// that emit 0-indexed pages or raw pixel coordinates violate the contract.
type Page interface {
	// Number returns the 1-indexed page number.
	Number() int

	// SearchLiteral returns the rectangles of every literal occurrence of
	// text on this page, in reading order. An empty slice means no hit.
	SearchLiteral(text string) []model.Bounds

	// RawText returns the full text content of the page. The result is
	// memoized per page index for the lifetime of the document handle.
	RawText() string

	// Spans returns every text span on the page with normalized bounds.
	Spans() []Span
}

// Document is the PDF text-access collaborator consumed by the matching
// engine. A handle is opened once per matcher instance and shared
// read-only across all strategy invocations; callers must not close it
// mid-batch.
type Document interface {
	PageCount() int
	Page(i int) Page // i is the 0-based iteration index
	Close() error
}

// EntityMatcher locates a single entity inside the document. Matching is
// total: every call yields a MatchedEntity, with strategy "none" and
// confidence 0 when the whole fallback chain is exhausted.
type EntityMatcher interface {
	MatchEntity(entityName, entityType string) model.MatchedEntity
}

// BatchMatcher runs the dispatcher over an entity list and aggregates
// match statistics. Results are returned in input order.
type BatchMatcher interface {
	MatchAll(entities []model.Entity) model.BatchResult
}

// JobManager defines operations for managing background matching jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}
