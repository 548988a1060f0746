// internal/workers/assessment/persist-result/handler.go
package persistresult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "careercompass-workers/internal/common/errors"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/common/metrics"
	"careercompass-workers/internal/models"
	"careercompass-workers/internal/results"
	"careercompass-workers/internal/session"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "persist-result"
)

var (
	ErrMissingResultID      = errors.New("MISSING_RESULT_ID")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

type Handler struct {
	config   *Config
	results  *results.Store
	progress *session.ProgressStore
	logger   logger.Logger
}

func NewHandler(config *Config, store *results.Store, progress *session.ProgressStore, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		results:  store,
		progress: progress,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ResultID == "" {
		return nil, fmt.Errorf("%w: resultId is required", ErrMissingResultID)
	}

	bundle := &models.ResultBundle{
		ResultID:         input.ResultID,
		AssessmentID:     input.AssessmentID,
		UserID:           input.UserID,
		RawScores:        input.RawScores,
		NormalizedScores: input.NormalizedScores,
		RiasecCodes:      input.RiasecCodes,
		Profile:          input.Profile,
		Matches:          input.Matches,
		CreatedAt:        time.Now().UTC(),
	}

	inserted, err := h.results.Save(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseInsertFailed, err)
	}
	if inserted {
		metrics.ResultsPersisted.Inc()
	} else {
		h.logger.Warn("result already persisted, skipping", map[string]interface{}{
			"resultId": input.ResultID,
		})
	}

	// Saved progress is only dropped once the result is safely on disk.
	// A failed cleanup leaves a key that expires on its own.
	if err := h.progress.Clear(ctx, input.AssessmentID, input.UserID); err != nil {
		h.logger.Warn("failed to clear saved progress", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"userId":       input.UserID,
			"error":        err,
		})
	}

	h.logger.Info("result persisted", map[string]interface{}{
		"resultId":  input.ResultID,
		"persisted": inserted,
	})

	return &Output{ResultID: input.ResultID, Persisted: inserted}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

// failJob reports the failure to the engine. Business errors are thrown as
// BPMN errors; technical errors fail the job with a bounded retry budget so
// the engine raises an incident once it is exhausted.
func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	bpmnErr := commonerrors.ConvertToBPMNError(commonerrors.ForCode(commonerrors.ErrorCode(errorCode), errorMessage))
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    bpmnErr.Code,
		"errorMessage": errorMessage,
		"category":     commonerrors.GetErrorCategory(commonerrors.ErrorCode(bpmnErr.Code)),
		"retryable":    bpmnErr.Retryable,
	})

	if !bpmnErr.Retryable {
		_, err := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(bpmnErr.Code).
			ErrorMessage(errorMessage).
			Send(context.Background())
		if err != nil {
			h.logger.Error("failed to throw error", map[string]interface{}{
				"error": err,
			})
		}
		return
	}

	retries := job.Retries - 1
	if budget := int32(bpmnErr.Retries); retries > budget {
		retries = budget
	}
	if retries < 0 {
		retries = 0
	}
	_, err := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to fail job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingResultID):
		return "MISSING_RESULT_ID"
	case errors.Is(err, ErrDatabaseInsertFailed):
		return "DATABASE_INSERT_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
