// internal/workers/data-access/load-assessment/handler.go
package loadassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"careercompass-workers/internal/catalog"
	commonerrors "careercompass-workers/internal/common/errors"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "load-assessment"
)

var (
	ErrAssessmentNotFound   = errors.New("ASSESSMENT_NOT_FOUND")
	ErrAssessmentInactive   = errors.New("ASSESSMENT_INACTIVE")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
)

type Handler struct {
	config  *Config
	catalog *catalog.Store
	logger  logger.Logger
}

func NewHandler(config *Config, store *catalog.Store, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: store,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
	if input.AssessmentID == "" {
		return nil, fmt.Errorf("%w: empty assessment id", ErrAssessmentNotFound)
	}

	assessment, err := h.catalog.Assessment(ctx, input.AssessmentID)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if assessment == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
	}
	if !assessment.Active {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentInactive, input.AssessmentID)
	}

	questions, err := h.catalog.Questions(ctx, input.AssessmentID)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: assessment %s has no questions", ErrAssessmentNotFound, input.AssessmentID)
	}

	scored := 0
	for _, q := range questions {
		if q.Scored() {
			scored++
		}
	}

	h.logger.Info("assessment loaded", map[string]interface{}{
		"assessmentId":  input.AssessmentID,
		"questionCount": len(questions),
		"scoredCount":   scored,
	})

	return &Output{
		Assessment:  assessment,
		Questions:   questions,
		ScoredCount: scored,
	}, nil
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
	case errors.Is(err, ErrAssessmentNotFound):
		return "ASSESSMENT_NOT_FOUND"
	case errors.Is(err, ErrAssessmentInactive):
		return "ASSESSMENT_INACTIVE"
	case errors.Is(err, ErrQueryTimeout):
		return "QUERY_TIMEOUT"
	case errors.Is(err, ErrQueryExecutionFailed):
		return "QUERY_EXECUTION_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func wrapQueryError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
