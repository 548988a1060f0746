// internal/workers/assessment/build-profile/handler.go
package buildprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	commonerrors "careercompass-workers/internal/common/errors"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/common/metrics"
	"careercompass-workers/internal/models"
	"careercompass-workers/internal/riasec"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-profile"
)

var (
	ErrMissingScores = errors.New("MISSING_SCORES")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "MISSING_SCORES", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if len(input.NormalizedScores) == 0 {
		return nil, fmt.Errorf("%w: no normalized scores in job variables", ErrMissingScores)
	}

	profile := riasec.BuildProfile(input.NormalizedScores)

	bands := make(map[models.Dimension]models.BandedDimension, len(models.DimensionOrder))
	for _, dim := range models.DimensionOrder {
		bands[dim] = riasec.GroupByBand(profile.Vectors.Dimension(dim))
	}

	code := joinCodes(profile.RiasecCodes)

	h.logger.Info("profile built", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"userId":       input.UserID,
		"riasecCode":   code,
	})

	return &Output{
		Profile:    profile,
		Bands:      bands,
		RiasecCode: code,
	}, nil
}

// joinCodes concatenates trait letters into the display code, e.g. "RI".
func joinCodes(codes []models.TraitCode) string {
	joined := ""
	for _, c := range codes {
		joined += string(c)
	}
	return joined
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
