package jobmanagement

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pronunciation-eval-platform/internal/coreengine/accuracyclassifier"
	"pronunciation-eval-platform/internal/coreengine/evaluationengine"
	"pronunciation-eval-platform/internal/datastore"
)

// CreateAccuracyJobRequest defines the expected payload for creating a
// pronunciation accuracy job. Parameters carries the optional threshold and
// sentence limit (see datastore.JobParameters).
type CreateAccuracyJobRequest struct {
	JobName         string          `json:"job_name"` // Optional, can be empty
	SentenceIDs     []int           `json:"sentence_ids" binding:"required,min=1"`
	EngineConfigIDs []int           `json:"engine_config_ids" binding:"required,min=1"`
	Parameters      json.RawMessage `json:"parameters"` // Optional, can be null or valid JSON
}

// CreateAccuracyJobHandler handles requests to create and run a new
// pronunciation accuracy evaluation job.
func CreateAccuracyJobHandler(c *gin.Context) {
	var req CreateAccuracyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if len(req.Parameters) > 0 {
		if !json.Valid(req.Parameters) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameters field contains invalid JSON"})
			return
		}
	} else {
		req.Parameters = json.RawMessage("null")
	}

	jobNameSQL := sql.NullString{String: req.JobName, Valid: req.JobName != ""}

	service := NewJobService()
	job, err := service.CreateAndRunAccuracyJob(jobNameSQL, req.SentenceIDs, req.EngineConfigIDs, req.Parameters)

	if err != nil {
		if job != nil && job.Status == JobStatusFailed {
			// The job row exists but execution failed.
			c.JSON(http.StatusAccepted, gin.H{
				"message": "Job initiated but failed during execution.",
				"job":     job,
				"detail":  err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create or run accuracy job: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, job) // Processing finished synchronously.
}

// GetJobHandler handles requests to retrieve a specific evaluation job by its ID.
func GetJobHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	job, err := datastore.GetEvaluationJob(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list evaluation jobs, optionally filtered by job_type.
func ListJobsHandler(c *gin.Context) {
	jobType := c.Query("job_type") // e.g., /jobs?job_type=PRONUNCIATION_ACCURACY

	jobs, err := datastore.ListEvaluationJobs(jobType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs: " + err.Error()})
		return
	}

	if jobs == nil {
		jobs = []*datastore.EvaluationJob{} // Return empty array instead of null
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJobResultsHandler handles requests to retrieve the per-sentence scores
// for a specific job ID, ordered by item index.
func GetJobResultsHandler(c *gin.Context) {
	idStr := c.Param("id")
	jobID, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	// Check the job itself first to provide a clear error message.
	_, err = datastore.GetEvaluationJob(jobID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Job with ID %d not found", jobID)})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify job existence: " + err.Error()})
		}
		return
	}

	scores, err := datastore.GetSentenceScoresForJob(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve results for job: " + err.Error()})
		return
	}

	if scores == nil {
		scores = []*datastore.SentenceScore{} // Return empty array
	}

	c.JSON(http.StatusOK, scores)
}

// GetJobReportHandler returns the aggregate accuracy report for a job:
// category counts and percentage shares over all persisted sentence scores.
func GetJobReportHandler(c *gin.Context) {
	idStr := c.Param("id")
	jobID, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	job, err := datastore.GetEvaluationJob(jobID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Job with ID %d not found", jobID)})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify job existence: " + err.Error()})
		}
		return
	}

	counts, err := datastore.CountScoresByCategory(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate job scores: " + err.Error()})
		return
	}

	report := evaluationengine.ReportFromCounts(
		counts[string(accuracyclassifier.CategoryFullyCorrect)],
		counts[string(accuracyclassifier.CategoryMinorErrors)],
		counts[string(accuracyclassifier.CategoryIncorrect)],
	)

	c.JSON(http.StatusOK, gin.H{
		"job_id":     jobID,
		"job_status": job.Status,
		"report":     report,
	})
}
