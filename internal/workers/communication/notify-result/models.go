// internal/workers/communication/notify-result/models.go
package notifyresult

type Input struct {
	UserID       string `json:"userId"`
	AssessmentID string `json:"assessmentId"`
	ResultID     string `json:"resultId"`
	Locale       string `json:"locale,omitempty"`
	// Two-letter archetype code, e.g. "RI", shown in the message body.
	RiasecCode string `json:"riasecCode,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
