package jobmanagement

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pronunciation-eval-platform/internal/coreengine/evaluationengine"
	"pronunciation-eval-platform/internal/datastore"
)

// JobService provides methods for managing evaluation jobs.
type JobService struct {
}

// NewJobService creates a new JobService.
func NewJobService() *JobService {
	return &JobService{}
}

const (
	JobStatusPending   = "PENDING"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"

	JobTypePronunciationAccuracy = "PRONUNCIATION_ACCURACY"
)

// CreateAndRunAccuracyJob creates a new pronunciation accuracy job and runs it
// synchronously: PENDING row first, then RUNNING with started_at, then the
// evaluation itself, then COMPLETED or FAILED with completed_at.
func (s *JobService) CreateAndRunAccuracyJob(jobName sql.NullString, sentenceIDs []int, engineConfigIDs []int, rawParams json.RawMessage) (*datastore.EvaluationJob, error) {
	log.Printf("CreateAndRunAccuracyJob called: Name: %s, Sentence IDs: %v, Engine IDs: %v", jobName.String, sentenceIDs, engineConfigIDs)

	params, err := datastore.ParseJobParameters(rawParams)
	if err != nil {
		return nil, fmt.Errorf("invalid job parameters: %w", err)
	}

	engineConfigIDsJSON, err := datastore.MarshalIntSliceToJSON(engineConfigIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal engine_config_ids: %w", err)
	}
	sentenceIDsJSON, err := datastore.MarshalIntSliceToJSON(sentenceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sentence_ids: %w", err)
	}

	job := &datastore.EvaluationJob{
		JobName:         jobName,
		JobType:         JobTypePronunciationAccuracy,
		Status:          JobStatusPending,
		EngineConfigIDs: engineConfigIDsJSON,
		SentenceIDs:     sentenceIDsJSON,
		Parameters:      rawParams,
	}

	jobID, err := datastore.CreateEvaluationJob(job)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation job in datastore: %w", err)
	}
	job.ID = jobID
	log.Printf("Job ID %d created with PENDING status.", jobID)

	if err := datastore.UpdateEvaluationJobStatus(jobID, JobStatusRunning); err != nil {
		log.Printf("Failed to update job ID %d status to RUNNING: %v. Attempting to mark as FAILED.", jobID, err)
		_ = datastore.UpdateEvaluationJobStatus(jobID, JobStatusFailed)
		_ = datastore.UpdateEvaluationJobTimestamps(jobID, sql.NullTime{}, sql.NullTime{Time: time.Now(), Valid: true})
		job.Status = JobStatusFailed
		return job, fmt.Errorf("failed to update job status to RUNNING: %w", err)
	}
	job.Status = JobStatusRunning

	startTime := time.Now()
	if err := datastore.UpdateEvaluationJobTimestamps(jobID, sql.NullTime{Time: startTime, Valid: true}, sql.NullTime{}); err != nil {
		log.Printf("Failed to update job ID %d started_at timestamp: %v. Attempting to mark as FAILED.", jobID, err)
		_ = datastore.UpdateEvaluationJobStatus(jobID, JobStatusFailed)
		_ = datastore.UpdateEvaluationJobTimestamps(jobID, sql.NullTime{}, sql.NullTime{Time: time.Now(), Valid: true})
		job.Status = JobStatusFailed
		return job, fmt.Errorf("failed to update job started_at: %w", err)
	}
	job.StartedAt = sql.NullTime{Time: startTime, Valid: true}
	log.Printf("Job ID %d status updated to RUNNING, started_at set.", jobID)

	evalErr := evaluationengine.RunAccuracyEvaluation(jobID, sentenceIDs, engineConfigIDs, params)
	completedTime := time.Now()

	if evalErr != nil {
		log.Printf("Accuracy evaluation for Job ID %d failed: %v", jobID, evalErr)
		job.Status = JobStatusFailed
		if err := datastore.UpdateEvaluationJobStatus(jobID, JobStatusFailed); err != nil {
			log.Printf("CRITICAL: Failed to update job ID %d status to FAILED after evaluation error: %v", jobID, err)
		}
	} else {
		log.Printf("Accuracy evaluation for Job ID %d completed successfully.", jobID)
		job.Status = JobStatusCompleted
		if err := datastore.UpdateEvaluationJobStatus(jobID, JobStatusCompleted); err != nil {
			log.Printf("CRITICAL: Failed to update job ID %d status to COMPLETED: %v", jobID, err)
		}
	}
	job.CompletedAt = sql.NullTime{Time: completedTime, Valid: true}

	// completed_at is set regardless of success or failure.
	if tsErr := datastore.UpdateEvaluationJobTimestamps(jobID, sql.NullTime{}, sql.NullTime{Time: completedTime, Valid: true}); tsErr != nil {
		log.Printf("CRITICAL: Failed to update job ID %d completed_at timestamp: %v", jobID, tsErr)
	}

	finalJob, fetchErr := datastore.GetEvaluationJob(jobID)
	if fetchErr != nil {
		log.Printf("Failed to fetch final job state for ID %d: %v. Returning local job object.", jobID, fetchErr)
		return job, evalErr
	}

	return finalJob, evalErr
}
