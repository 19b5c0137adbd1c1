// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"readiness-workers/internal/assessment"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/models"
	"readiness-workers/internal/store"
)

const (
	defaultListLimit  = 50
	defaultSearchSize = 20
	maxPageSize       = 200
)

// SubmitResponse is the intake acknowledgement payload.
type SubmitResponse struct {
	SubmissionID    string  `json:"submissionId"`
	OverallScore    float64 `json:"overallScore"`
	Tier            string  `json:"tier"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	WorkflowStarted bool    `json:"workflowStarted"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeSubmissionValidationFailed,
			fmt.Sprintf("invalid request body: %v", err))
		return
	}

	normalizeRequest(&req)
	if msg := validateRequest(&req); msg != "" {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeSubmissionValidationFailed, msg)
		return
	}

	ctx := r.Context()

	if err := s.throttle.ReserveSubmit(ctx, req.Email); err != nil {
		if errors.Is(err, store.ErrThrottled) {
			metrics.SubmissionsThrottled.Inc()
			s.writeError(w, http.StatusTooManyRequests, apperrors.ErrCodeSubmissionThrottled,
				"a submission for this email was received moments ago, please wait before retrying")
			return
		}
		s.logger.Warn("submit throttle unavailable", map[string]interface{}{"error": err})
	}

	pillarScores, overall := assessment.ComputeScores(req.Answers)
	tier := assessment.TierFor(overall)

	now := time.Now().UTC()
	sub := &models.Submission{
		ID:             uuid.New().String(),
		Timestamp:      now,
		Company:        req.Company,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Role:           req.Role,
		Phone:          req.Phone,
		DistributorIDs: req.DistributorIDs,
		Answers:        req.Answers,
		PillarScores:   toPillarResults(pillarScores),
		OverallScore:   overall,
		Tier:           tier,
		Status:         models.StatusPendingReview,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Append(ctx, sub); err != nil {
		if relErr := s.throttle.ReleaseSubmit(ctx, req.Email); relErr != nil {
			s.logger.Warn("throttle release failed", map[string]interface{}{"error": relErr})
		}
		s.logger.Error("submission persist failed", map[string]interface{}{
			"submissionId": sub.ID,
			"error":        err,
		})
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeSubmissionPersistFailed,
			"could not store the submission, please retry")
		return
	}

	metrics.SubmissionsReceived.WithLabelValues(tier).Inc()

	workflowStarted := true
	_, err := s.starter.StartProcessInstance(ctx, s.intakeProcessID(), map[string]interface{}{
		"submissionId":     sub.ID,
		"email":            sub.Email,
		"company":          sub.Company,
		"overallScore":     sub.OverallScore,
		"tier":             sub.Tier,
		"submissionStatus": sub.Status,
	})
	if err != nil {
		// the record is safe in postgres, advisors can re-trigger the workflow
		workflowStarted = false
		s.logger.Error("intake workflow start failed", map[string]interface{}{
			"submissionId": sub.ID,
			"error":        err,
		})
	}

	s.logger.Info("submission accepted", map[string]interface{}{
		"submissionId":    sub.ID,
		"company":         sub.Company,
		"tier":            tier,
		"workflowStarted": workflowStarted,
	})

	s.writeJSON(w, http.StatusAccepted, SubmitResponse{
		SubmissionID:    sub.ID,
		OverallScore:    math.Round(sub.OverallScore),
		Tier:            tier,
		Status:          sub.Status,
		Message:         acknowledgement(sub.ContactName, s.cfg.Assessment.AdvisorSLAPhrase),
		WorkflowStarted: workflowStarted,
	})
}

type catalogQuestion struct {
	Code   string `json:"code"`
	Prompt string `json:"prompt"`
}

type catalogPillar struct {
	Name      string            `json:"name"`
	Questions []catalogQuestion `json:"questions"`
}

type catalogResponse struct {
	Pillars   []catalogPillar       `json:"pillars"`
	TierBands []assessment.TierBand `json:"tierBands"`
	Prefill   map[string]string     `json:"prefill,omitempty"`
}

// handleCatalog serves the survey form definition. Contact fields passed as
// query parameters are echoed back so links can prefill the form.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Pillars:   make([]catalogPillar, 0, len(assessment.Pillars)),
		TierBands: assessment.TierBands,
	}
	for _, pillar := range assessment.Pillars {
		cp := catalogPillar{Name: pillar.Name}
		for _, code := range pillar.Questions {
			cp.Questions = append(cp.Questions, catalogQuestion{Code: code, Prompt: assessment.Questions[code]})
		}
		resp.Pillars = append(resp.Pillars, cp)
	}

	prefill := make(map[string]string)
	for _, key := range []string{"company", "contactName", "email", "role", "phone", "distributorIds"} {
		if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
			prefill[key] = v
		}
	}
	if len(prefill) > 0 {
		resp.Prefill = prefill
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > maxPageSize {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.List(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "listing submissions failed")
		return
	}
	if items == nil {
		items = []models.SubmissionSummary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, apperrors.ErrCodeSubmissionNotFound, "submission not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "loading submission failed")
		return
	}
	s.writeJSON(w, http.StatusOK, sub)
}

// handleGetReport serves the rendered report HTML, cache first.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := r.Context()

	if html, err := s.cache.GetReport(ctx, id); err == nil && html != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
		return
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, apperrors.ErrCodeSubmissionNotFound, "submission not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "loading submission failed")
		return
	}

	html, err := s.renderer.Render(sub)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeReportRenderFailed, "report rendering failed")
		return
	}
	if err := s.cache.PutReport(ctx, id, html); err != nil {
		s.logger.Warn("report cache write failed", map[string]interface{}{"submissionId": id, "error": err})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// handleDeliver starts the report-delivery workflow for a reviewed submission.
func (s *Server) handleDeliver(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := r.Context()

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, apperrors.ErrCodeSubmissionNotFound, "submission not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "loading submission failed")
		return
	}

	key, err := s.starter.StartProcessInstance(ctx, s.reportProcessID(), map[string]interface{}{
		"submissionId": sub.ID,
	})
	if err != nil {
		s.logger.Error("report workflow start failed", map[string]interface{}{
			"submissionId": sub.ID,
			"error":        err,
		})
		s.writeError(w, http.StatusBadGateway, apperrors.ErrCodeQueryExecutionFailed, "could not start report delivery")
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"submissionId":       sub.ID,
		"processInstanceKey": key,
	})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := r.Context()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeSubmissionValidationFailed, "invalid JSON body")
		return
	}

	switch body.Status {
	case models.StatusPendingReview, models.StatusReportGenerated, models.StatusReportSent:
	default:
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeSubmissionValidationFailed,
			"status must be one of pending_review, report_generated, report_sent")
		return
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, apperrors.ErrCodeSubmissionNotFound, "submission not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "loading submission failed")
		return
	}

	if err := s.repo.UpdateStatus(ctx, id, body.Status); err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "status update failed")
		return
	}

	s.logger.Info("submission status updated", map[string]interface{}{
		"submissionId": id,
		"status":       body.Status,
	})

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"submissionId": id,
		"status":       body.Status,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.repo.ExportCSV(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeQueryExecutionFailed, "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.csv"`)
	w.Write(data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeSubmissionValidationFailed, "query parameter 'q' is required")
		return
	}
	size := queryInt(r, "size", defaultSearchSize)
	if size < 1 || size > maxPageSize {
		size = defaultSearchSize
	}

	items, err := s.search.Search(r.Context(), query, size)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeSearchTimeout, "search failed")
		return
	}
	if items == nil {
		items = []models.SubmissionSummary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"query": query,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// --- helpers ---

func (s *Server) intakeProcessID() string {
	if s.cfg.Assessment.IntakeProcessID != "" {
		return s.cfg.Assessment.IntakeProcessID
	}
	return "assessment-intake"
}

func (s *Server) reportProcessID() string {
	if s.cfg.Assessment.ReportProcessID != "" {
		return s.cfg.Assessment.ReportProcessID
	}
	return "report-delivery"
}

func acknowledgement(contactName, slaPhrase string) string {
	if slaPhrase == "" {
		slaPhrase = "2-3 business days"
	}
	return fmt.Sprintf(
		"Hi %s, thank you for your submission. Our advisors will review your responses and send your personalized Channel Readiness Report via email within %s.",
		contactName, slaPhrase)
}

func normalizeRequest(req *models.SurveyRequest) {
	req.Company = strings.TrimSpace(req.Company)
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.TrimSpace(req.Role)
	req.Phone = strings.TrimSpace(req.Phone)
	req.DistributorIDs = strings.TrimSpace(req.DistributorIDs)

	// unknown answer codes are dropped; out-of-range ratings pass through
	// and the scoring core counts them as unanswered
	if req.Answers != nil {
		cleaned := make(map[string]int, len(req.Answers))
		for code, rating := range req.Answers {
			if _, ok := assessment.Questions[code]; ok {
				cleaned[code] = rating
			}
		}
		req.Answers = cleaned
	} else {
		req.Answers = map[string]int{}
	}
}

func validateRequest(req *models.SurveyRequest) string {
	switch {
	case req.Company == "":
		return "company is required"
	case req.ContactName == "":
		return "contactName is required"
	case req.Email == "":
		return "email is required"
	case !strings.Contains(req.Email, "@") || strings.ContainsAny(req.Email, " \t"):
		return "email format is invalid"
	}
	return ""
}

func toPillarResults(scores []assessment.PillarScore) []models.PillarResult {
	out := make([]models.PillarResult, 0, len(scores))
	for _, ps := range scores {
		out = append(out, models.PillarResult{Name: ps.Name, Score: ps.Score, Detail: ps.Detail})
	}
	return out
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code apperrors.ErrorCode, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    string(code),
			"message": message,
		},
	})
}
