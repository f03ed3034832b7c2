package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"household/internal/domain/analysis"
	"household/internal/interfaces/scheduler"
)

// JobSubmitter queues background work, normally the scheduler's worker pool.
type JobSubmitter interface {
	Submit(job scheduler.Job) error
}

type AnalysisHandler struct {
	service *analysis.Service
	jobs    JobSubmitter
}

func NewAnalysisHandler(service *analysis.Service, jobs JobSubmitter) *AnalysisHandler {
	return &AnalysisHandler{service: service, jobs: jobs}
}

type GenerateAnalysisRequest struct {
	AnalysisType string `json:"analysisType,omitempty"`
}

type AnalysisResponse struct {
	ID               int64  `json:"id"`
	AnalysisType     string `json:"analysisType"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	TotalIncome      string `json:"totalIncome"`
	TotalExpense     string `json:"totalExpense"`
	NetAmount        string `json:"netAmount"`
	TransactionCount int    `json:"transactionCount"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

func toAnalysisResponse(a *analysis.SpendingAnalysis) AnalysisResponse {
	return AnalysisResponse{
		ID:               a.ID,
		AnalysisType:     string(a.Type),
		StartDate:        a.StartDate.Format("2006-01-02"),
		EndDate:          a.EndDate.Format("2006-01-02"),
		TotalIncome:      money(a.TotalIncome),
		TotalExpense:     money(a.TotalExpense),
		NetAmount:        money(a.NetAmount),
		TransactionCount: a.TransactionCount,
		CreatedAt:        timestamp(a.CreatedAt),
		UpdatedAt:        timestamp(a.UpdatedAt),
	}
}

type ComparisonEntryResponse struct {
	Period           string `json:"period"`
	TotalIncome      string `json:"totalIncome"`
	TotalExpense     string `json:"totalExpense"`
	NetAmount        string `json:"netAmount"`
	TransactionCount int    `json:"transactionCount"`
}

type ComparisonResponse struct {
	Weekly  []ComparisonEntryResponse `json:"weekly"`
	Monthly []ComparisonEntryResponse `json:"monthly"`
}

func toComparisonEntries(entries []analysis.ComparisonEntry) []ComparisonEntryResponse {
	out := make([]ComparisonEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ComparisonEntryResponse{
			Period:           e.Period,
			TotalIncome:      money(e.TotalIncome),
			TotalExpense:     money(e.TotalExpense),
			NetAmount:        money(e.NetAmount),
			TransactionCount: e.TransactionCount,
		})
	}
	return out
}

// HandleListAnalyses lists stored analyses newest first, optionally of one ?analysis_type.
func (h *AnalysisHandler) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	typ := analysis.Type(r.URL.Query().Get("analysis_type"))
	list, err := h.service.List(r.Context(), userID, typ)
	if err != nil {
		writeError(w, "list analyses", err, "user_id", userID)
		return
	}

	out := make([]AnalysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAnalysisResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AnalysisHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}

	a, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		writeError(w, "get analysis", err, "analysis_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAnalysisResponse(a))
}

// HandleComparison returns the last four weeks and three months side by side.
func (h *AnalysisHandler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	c, err := h.service.Compare(r.Context(), userID)
	if err != nil {
		writeError(w, "compare analyses", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, ComparisonResponse{
		Weekly:  toComparisonEntries(c.Weekly),
		Monthly: toComparisonEntries(c.Monthly),
	})
}

// HandleGenerate queues an analysis run for the requester and returns 202.
// An empty body or type selects both weekly and monthly.
func (h *AnalysisHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req GenerateAnalysisRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	types, err := analysis.ParseTypes(req.AnalysisType)
	if err != nil {
		writeError(w, "generate analysis", err)
		return
	}

	if err := h.jobs.Submit(scheduler.NewAnalysisJob(userID, types, h.service)); err != nil {
		if errors.Is(err, scheduler.ErrQueueFull) || errors.Is(err, scheduler.ErrPoolClosed) {
			logger.Warn("analysis job rejected", "user_id", userID, "err", err)
			http.Error(w, "Analysis queue is busy, try again later", http.StatusServiceUnavailable)
			return
		}
		writeError(w, "generate analysis", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
