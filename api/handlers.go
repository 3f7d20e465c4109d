// Package api exposes the matching engine over HTTP: synchronous and
// asynchronous batch matching, job tracking and stored batch history.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docparse/bounds-matcher/config"
	bmerrors "github.com/docparse/bounds-matcher/internal/errors"
	"github.com/docparse/bounds-matcher/internal/input"
	"github.com/docparse/bounds-matcher/internal/jobs"
	"github.com/docparse/bounds-matcher/internal/matcher"
	"github.com/docparse/bounds-matcher/internal/persistence"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// matcherService is what a handler needs from an open document: batch
// matching plus handle release.
type matcherService interface {
	services.BatchMatcher
	Close() error
}

// API holds dependencies for API handlers.
type API struct {
	settings config.MatcherSettings
	jobs     *jobs.Manager
	store    *persistence.Store

	// openMatcher opens the named PDF; swapped out in tests.
	openMatcher func(path string) (matcherService, error)
}

// NewAPI creates a new API handler structure.
func NewAPI(settings config.MatcherSettings, manager *jobs.Manager, store *persistence.Store) *API {
	api := &API{
		settings: settings,
		jobs:     manager,
		store:    store,
	}
	api.openMatcher = func(path string) (matcherService, error) {
		return matcher.Open(path, settings)
	}
	return api
}

// SetupRoutes defines all the API routes for the matching service.
func SetupRoutes(router *gin.Engine, api *API) {
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(10 << 20)) // 10 MB request bodies

	router.GET("/health", api.HealthCheckHandler)

	router.POST("/match", api.MatchHandler)
	router.POST("/match/async", api.MatchAsyncHandler)

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", api.ListJobsHandler)
		jobRoutes.GET("/:jobId", api.GetJobHandler)
	}

	batchRoutes := router.Group("/batches")
	{
		batchRoutes.GET("", api.ListBatchesHandler)
		batchRoutes.GET("/:batchId", api.GetBatchHandler)
	}
}

// HealthCheckHandler reports service liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "bounds-matcher",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// MatchHandler runs a batch synchronously and returns the full result.
// Request Body: input.Request
func (api *API) MatchHandler(c *gin.Context) {
	req, ok := api.bindRequest(c)
	if !ok {
		return
	}

	service, err := api.openMatcher(req.PDFFile)
	if err != nil {
		api.sendOpenError(c, req.PDFFile, err)
		return
	}
	defer func() {
		if closeErr := service.Close(); closeErr != nil {
			log.Printf("Warning: failed to close document '%s': %v", req.PDFFile, closeErr)
		}
	}()

	result := service.MatchAll(req.Entities)
	api.saveBatch(result)

	c.JSON(http.StatusOK, result)
}

// MatchAsyncHandler starts a batch in the background and returns a job ID.
// Request Body: input.Request
func (api *API) MatchAsyncHandler(c *gin.Context) {
	req, ok := api.bindRequest(c)
	if !ok {
		return
	}

	jobID := api.jobs.CreateJob(model.JobTypeMatchBatch, req.PDFFile)
	err := api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) (*model.BatchResult, error) {
		service, err := api.openMatcher(req.PDFFile)
		if err != nil {
			return nil, err
		}
		defer service.Close()

		api.jobs.UpdateJobProgress(job.ID, 0, len(req.Entities), "matching entities")
		result := service.MatchAll(req.Entities)
		api.jobs.UpdateJobProgress(job.ID, len(req.Entities), len(req.Entities), "finished")

		api.saveBatch(result)
		return &result, nil
	})
	if err != nil {
		SendJobExecutionError(c, "batch matching", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Batch matching started for '" + req.PDFFile + "'",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, optionally by status
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	tracked := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  tracked,
		"total": len(tracked),
	})
}

// GetBatchHandler returns a stored batch result by ID
func (api *API) GetBatchHandler(c *gin.Context) {
	batchID := c.Param("batchId")

	result, err := api.store.LoadBatch(batchID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			SendBatchNotFoundError(c, batchID)
			return
		}
		SendInternalError(c, "loading batch", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListBatchesHandler lists the IDs of all stored batches
func (api *API) ListBatchesHandler(c *gin.Context) {
	ids, err := api.store.ListBatchIDs()
	if err != nil {
		SendInternalError(c, "listing batches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"batches": ids,
		"total":   len(ids),
	})
}

// bindRequest reads and validates the match request payload, writing the
// error response itself when the payload is unusable.
func (api *API) bindRequest(c *gin.Context) (*input.Request, bool) {
	body, err := c.GetRawData()
	if err != nil {
		SendInvalidJSONError(c, err)
		return nil, false
	}

	req, err := input.Parse(body)
	if err != nil {
		var malformed *bmerrors.MalformedInputError
		if errors.As(err, &malformed) {
			detail := ErrorDetail{Message: malformed.Reason, Code: "MALFORMED_INPUT"}
			if malformed.Position >= 0 {
				detail.Field = "entities[" + strconv.Itoa(malformed.Position) + "]"
			}
			SendError(c, http.StatusBadRequest, ErrorCodeMalformedInput, err.Error(), detail)
			return nil, false
		}
		SendInvalidJSONError(c, err)
		return nil, false
	}
	return req, true
}

// sendOpenError translates document-open failures to HTTP responses.
func (api *API) sendOpenError(c *gin.Context, path string, err error) {
	if errors.Is(err, bmerrors.ErrDocumentNotFound) {
		SendDocumentNotFoundError(c, path)
		return
	}
	SendError(c, http.StatusUnprocessableEntity, ErrorCodeMatchingFailed,
		"Cannot open document '"+path+"': "+err.Error())
}

// saveBatch stores the batch result, logging instead of failing the
// request when history cannot be written.
func (api *API) saveBatch(result model.BatchResult) {
	if api.store == nil {
		return
	}
	if err := api.store.SaveBatch(result); err != nil {
		log.Printf("Warning: failed to persist batch '%s': %v", result.BatchID, err)
	}
}
