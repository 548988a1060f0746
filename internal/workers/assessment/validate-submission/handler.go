// internal/workers/assessment/validate-submission/handler.go
package validatesubmission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	commonerrors "careercompass-workers/internal/common/errors"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/common/metrics"
	"careercompass-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-submission"
)

var (
	ErrSubmissionMalformed  = errors.New("SUBMISSION_MALFORMED")
	ErrSubmissionIncomplete = errors.New("SUBMISSION_INCOMPLETE")
	ErrUnknownQuestion      = errors.New("UNKNOWN_QUESTION")
	ErrUnknownOptionKey     = errors.New("UNKNOWN_OPTION_KEY")
)

// answersSchema is the structural contract of the answers document: question
// ids mapping to non-empty objects of option key to numeric weight.
var answersSchema = map[string]interface{}{
	"type":          "object",
	"minProperties": 1,
	"additionalProperties": map[string]interface{}{
		"type":          "object",
		"minProperties": 1,
		"additionalProperties": map[string]interface{}{
			"type": "number",
		},
	},
}

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
		h.failJob(client, job, h.mapErrorToCode(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if err := h.validateShape(input.Answers); err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(input.Questions))
	for i, q := range input.Questions {
		byID[q.ID] = i
	}

	// Answers must reference published questions, with declared option keys
	// only, all-or-nothing per question.
	for _, questionID := range sortedKeys(input.Answers) {
		idx, ok := byID[questionID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
		}
		question := input.Questions[idx]
		for _, key := range sortedAnswerKeys(input.Answers[questionID]) {
			if _, ok := question.OptionWeight(key); !ok {
				return nil, fmt.Errorf("%w: question %s, key %s", ErrUnknownOptionKey, questionID, key)
			}
		}
	}

	// Every scored question needs an answer; survey questions do not.
	scored := 0
	for _, q := range input.Questions {
		if !q.Scored() {
			continue
		}
		scored++
		if !input.Answers.Has(q.ID) {
			return nil, fmt.Errorf("%w: question %s unanswered", ErrSubmissionIncomplete, q.ID)
		}
	}

	h.logger.Info("submission validated", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"userId":       input.UserID,
		"answerCount":  len(input.Answers),
		"scoredCount":  scored,
	})

	return &Output{
		Valid:         true,
		QuestionCount: len(input.Questions),
		ScoredCount:   scored,
		AnswerCount:   len(input.Answers),
	}, nil
}

func (h *Handler) validateShape(answers interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(answersSchema),
		gojsonschema.NewGoLoader(answers),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionMalformed, err)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrSubmissionMalformed, strings.Join(issues, "; "))
	}
	return nil
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
	case errors.Is(err, ErrSubmissionMalformed):
		return "SUBMISSION_MALFORMED"
	case errors.Is(err, ErrSubmissionIncomplete):
		return "SUBMISSION_INCOMPLETE"
	case errors.Is(err, ErrUnknownQuestion):
		return "UNKNOWN_QUESTION"
	case errors.Is(err, ErrUnknownOptionKey):
		return "UNKNOWN_OPTION_KEY"
	}
	return "UNKNOWN_ERROR"
}

func sortedKeys(answers models.AnswerSet) []string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAnswerKeys(answer models.Answer) []string {
	keys := make([]string, 0, len(answer))
	for k := range answer {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
