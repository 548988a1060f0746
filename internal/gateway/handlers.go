// internal/gateway/handlers.go
package gateway

import (
	"errors"
	"net/http"

	"careercompass-workers/internal/common/metrics"
	"careercompass-workers/internal/models"
	"careercompass-workers/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type answerRequest struct {
	UserID       string   `json:"userId" binding:"required"`
	QuestionID   string   `json:"questionId" binding:"required"`
	SelectedKeys []string `json:"selectedKeys" binding:"required"`
}

type navigateRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type submitRequest struct {
	UserID string `json:"userId" binding:"required"`
	Locale string `json:"locale,omitempty"`
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func fail(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: message, Details: details}})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.config.App.Name})
}

// loadCatalog resolves the assessment and its question list, writing the
// error response itself when the assessment is unusable.
func (s *Server) loadCatalog(c *gin.Context) (*models.Assessment, []models.Question, bool) {
	assessmentID := c.Param("assessmentId")

	assessment, err := s.catalog.Assessment(c.Request.Context(), assessmentID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "QUERY_EXECUTION_FAILED", err.Error(), nil)
		return nil, nil, false
	}
	if assessment == nil {
		fail(c, http.StatusNotFound, "ASSESSMENT_NOT_FOUND", "assessment does not exist: "+assessmentID, nil)
		return nil, nil, false
	}
	if !assessment.Active {
		fail(c, http.StatusConflict, "ASSESSMENT_INACTIVE", "assessment is not accepting sessions: "+assessmentID, nil)
		return nil, nil, false
	}

	questions, err := s.catalog.Questions(c.Request.Context(), assessmentID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "QUERY_EXECUTION_FAILED", err.Error(), nil)
		return nil, nil, false
	}
	return assessment, questions, true
}

// loadProgress returns existing durable state or a fresh one.
func (s *Server) loadProgress(c *gin.Context, assessmentID, userID string) (*models.TestProgress, bool) {
	progress, err := s.progress.Load(c.Request.Context(), assessmentID, userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "PROGRESS_STORE_FAILED", err.Error(), nil)
		return nil, false
	}
	if progress == nil {
		progress = models.NewTestProgress(assessmentID, userID)
	}
	return progress, true
}

func (s *Server) saveProgress(c *gin.Context, progress *models.TestProgress) bool {
	if err := s.progress.Save(c.Request.Context(), progress); err != nil {
		fail(c, http.StatusInternalServerError, "PROGRESS_STORE_FAILED", err.Error(), nil)
		return false
	}
	return true
}

func sectionView(assessment *models.Assessment, sec *session.Section, progress *models.TestProgress) gin.H {
	answered := 0
	for _, q := range sec.Questions {
		if progress.Answers.Has(q.ID) {
			answered++
		}
	}
	return gin.H{
		"assessment": gin.H{
			"id":    assessment.ID,
			"title": assessment.Title,
		},
		"section": gin.H{
			"index":     sec.Index,
			"total":     sec.Total,
			"questions": sec.Questions,
			"answered":  answered,
		},
		"status":  progress.Status,
		"answers": progress.Answers,
	}
}

func (s *Server) handleSection(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		fail(c, http.StatusBadRequest, "MISSING_USER_ID", "userId query parameter is required", nil)
		return
	}

	assessment, questions, ok := s.loadCatalog(c)
	if !ok {
		return
	}
	progress, ok := s.loadProgress(c, assessment.ID, userID)
	if !ok {
		return
	}

	sec, err := session.CurrentSection(questions, progress, s.config.Assessment.SectionSize)
	if err != nil {
		s.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sectionView(assessment, sec, progress))
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "MALFORMED_REQUEST", err.Error(), nil)
		return
	}

	assessment, questions, ok := s.loadCatalog(c)
	if !ok {
		return
	}

	var question *models.Question
	for i := range questions {
		if questions[i].ID == req.QuestionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		fail(c, http.StatusBadRequest, "UNKNOWN_QUESTION", "question not part of this assessment: "+req.QuestionID, nil)
		return
	}

	progress, ok := s.loadProgress(c, assessment.ID, req.UserID)
	if !ok {
		return
	}
	if err := session.SetAnswer(progress, *question, req.SelectedKeys); err != nil {
		s.writeSessionError(c, err)
		return
	}
	if !s.saveProgress(c, progress) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questionId":    req.QuestionID,
		"answeredCount": len(progress.Answers),
		"sectionIndex":  progress.CurrentSectionIndex,
	})
}

func (s *Server) handleAdvance(c *gin.Context) {
	s.navigate(c, func(questions []models.Question, progress *models.TestProgress) error {
		return session.Advance(questions, progress, s.config.Assessment.SectionSize)
	})
}

func (s *Server) handleRetreat(c *gin.Context) {
	s.navigate(c, func(_ []models.Question, progress *models.TestProgress) error {
		return session.Retreat(progress)
	})
}

func (s *Server) navigate(c *gin.Context, move func([]models.Question, *models.TestProgress) error) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "MALFORMED_REQUEST", err.Error(), nil)
		return
	}

	assessment, questions, ok := s.loadCatalog(c)
	if !ok {
		return
	}
	progress, ok := s.loadProgress(c, assessment.ID, req.UserID)
	if !ok {
		return
	}

	if err := move(questions, progress); err != nil {
		s.writeSessionError(c, err)
		return
	}
	if !s.saveProgress(c, progress) {
		return
	}

	sec, err := session.CurrentSection(questions, progress, s.config.Assessment.SectionSize)
	if err != nil {
		s.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sectionView(assessment, sec, progress))
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "MALFORMED_REQUEST", err.Error(), nil)
		return
	}

	assessment, questions, ok := s.loadCatalog(c)
	if !ok {
		return
	}
	progress, ok := s.loadProgress(c, assessment.ID, req.UserID)
	if !ok {
		return
	}

	var missing []string
	for _, q := range questions {
		if q.Scored() && !progress.Answers.Has(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		fail(c, http.StatusConflict, "SUBMISSION_INCOMPLETE", "unanswered scored questions remain", gin.H{"unanswered": missing})
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = s.config.Assessment.DefaultLocale
	}

	resultID := uuid.New().String()
	variables := map[string]interface{}{
		"assessmentId": assessment.ID,
		"userId":       req.UserID,
		"resultId":     resultID,
		"locale":       string(models.ParseLocale(locale)),
		"answers":      progress.Answers,
	}

	instanceKey, err := s.camunda.StartProcess(c.Request.Context(), s.config.Camunda.ScoringProcess, variables)
	if err != nil {
		fail(c, http.StatusBadGateway, "PROCESS_START_FAILED", err.Error(), nil)
		return
	}

	// Progress survives until persist-result confirms the write; only the
	// status flips so a resumed session sees the submission.
	progress.Status = models.StatusSubmitted
	if err := s.progress.Save(c.Request.Context(), progress); err != nil {
		s.logger.Warn("failed to mark progress submitted", map[string]interface{}{
			"assessmentId": assessment.ID,
			"userId":       req.UserID,
			"error":        err,
		})
	}

	metrics.SubmissionsAccepted.WithLabelValues(assessment.ID).Inc()
	s.logger.Info("submission accepted", map[string]interface{}{
		"assessmentId":       assessment.ID,
		"userId":             req.UserID,
		"resultId":           resultID,
		"processInstanceKey": instanceKey,
	})

	c.JSON(http.StatusAccepted, gin.H{
		"resultId": resultID,
		"status":   "processing",
	})
}

func (s *Server) handleResult(c *gin.Context) {
	resultID := c.Param("resultId")

	bundle, err := s.results.Get(c.Request.Context(), resultID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "QUERY_EXECUTION_FAILED", err.Error(), nil)
		return
	}
	if bundle == nil {
		// A result id issued at submission looks identical to an unknown
		// one until the pipeline lands.
		fail(c, http.StatusNotFound, "RESULT_NOT_FOUND", "result not ready or unknown id: "+resultID, nil)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func (s *Server) writeSessionError(c *gin.Context, err error) {
	var outOfRange *session.OutOfRangeError
	if errors.As(err, &outOfRange) {
		fail(c, http.StatusBadRequest, "OUT_OF_RANGE", err.Error(), nil)
		return
	}
	var incomplete *session.SectionIncompleteError
	if errors.As(err, &incomplete) {
		fail(c, http.StatusConflict, "SECTION_INCOMPLETE", err.Error(), gin.H{"unanswered": incomplete.Unanswered})
		return
	}
	var unknownOption *session.UnknownOptionError
	if errors.As(err, &unknownOption) {
		fail(c, http.StatusBadRequest, "INVALID_ANSWER", err.Error(), nil)
		return
	}
	fail(c, http.StatusInternalServerError, "UNKNOWN_ERROR", err.Error(), nil)
}
