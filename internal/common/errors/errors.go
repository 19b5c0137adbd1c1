// internal/common/errors/errors.go
// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSubmissionValidationFailed ErrorCode = "SUBMISSION_VALIDATION_FAILED"
	ErrCodeSubmissionNotFound         ErrorCode = "SUBMISSION_NOT_FOUND"
	ErrCodeDuplicateSubmission        ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeSubmissionThrottled        ErrorCode = "SUBMISSION_THROTTLED"

	ErrCodeScoringFailed ErrorCode = "SCORING_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeSubmissionPersistFailed  ErrorCode = "SUBMISSION_PERSIST_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchIndexFailed             ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeReportRenderFailed ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeReportCacheFailed  ErrorCode = "REPORT_CACHE_FAILED"
	ErrCodeReportEmailFailed  ErrorCode = "REPORT_EMAIL_FAILED"

	ErrCodeCRMSyncFailed ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeCRMAPITimeout ErrorCode = "CRM_API_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewSubmissionValidationError creates a non-retryable validation error.
func NewSubmissionValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionValidationFailed,
		Message:   "Submission failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionNotFoundError creates a non-retryable lookup error.
func NewSubmissionNotFoundError(submissionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionNotFound,
		Message:   "Submission not found",
		Details:   fmt.Sprintf("no submission with id %s", submissionID),
		Retryable: false,
		Metadata:  map[string]interface{}{"submissionId": submissionID},
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateSubmissionError creates a non-retryable duplicate error.
func NewDuplicateSubmissionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubmission,
		Message:   "Submission already exists",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionThrottledError creates a non-retryable throttle error.
func NewSubmissionThrottledError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionThrottled,
		Message:   "Too many submissions, please wait before retrying",
		Details:   fmt.Sprintf("throttle window active for %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringError creates a non-retryable scoring error.
func NewScoringError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Failed to compute readiness scores",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionError creates a retryable database error.
func NewDatabaseConnectionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionPersistError creates a retryable persistence error.
func NewSubmissionPersistError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionPersistFailed,
		Message:   "Failed to persist submission",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError creates a retryable query error.
func NewQueryExecutionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionError creates a retryable search connection error.
func NewElasticsearchConnectionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexError creates a retryable indexing error.
func NewSearchIndexError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Failed to index submission",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Search request timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportRenderError creates a non-retryable render error.
func NewReportRenderError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportRenderFailed,
		Message:   "Failed to render readiness report",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportCacheError creates a retryable cache error.
func NewReportCacheError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportCacheFailed,
		Message:   "Failed to cache rendered report",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportEmailError creates a retryable email delivery error.
func NewReportEmailError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportEmailFailed,
		Message:   "Failed to send readiness report email",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMSyncError creates a retryable CRM error.
func NewCRMSyncError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMSyncFailed,
		Message:   "Failed to sync lead to CRM",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMAPITimeoutError creates a retryable CRM timeout error.
func NewCRMAPITimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMAPITimeout,
		Message:   "CRM API request timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendError creates a retryable notification error.
func NewNotificationSendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send advisor notification",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSubmissionValidationFailed:    "SUBMISSION_VALIDATION_FAILED",
	ErrCodeSubmissionNotFound:            "SUBMISSION_NOT_FOUND",
	ErrCodeDuplicateSubmission:           "DUPLICATE_SUBMISSION",
	ErrCodeSubmissionThrottled:           "SUBMISSION_THROTTLED",
	ErrCodeScoringFailed:                 "SCORING_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeSubmissionPersistFailed:       "SUBMISSION_PERSIST_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchIndexFailed:             "SEARCH_INDEX_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeReportRenderFailed:            "REPORT_RENDER_FAILED",
	ErrCodeReportCacheFailed:             "REPORT_CACHE_FAILED",
	ErrCodeReportEmailFailed:             "REPORT_EMAIL_FAILED",
	ErrCodeCRMSyncFailed:                 "CRM_SYNC_FAILED",
	ErrCodeCRMAPITimeout:                 "CRM_API_TIMEOUT",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeSubmissionPersistFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeReportCacheFailed,
		ErrCodeReportEmailFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeCRMAPITimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SUBMISSION") && !strings.Contains(codeStr, "PERSIST"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "PERSIST"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "SCORING"):
		return "SCORING"
	default:
		return "OTHER"
	}
}
