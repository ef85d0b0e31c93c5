package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"questline/internal/model"
	"questline/internal/service"
	"questline/internal/transport/rest/middleware"
)

// AnswerHandler handles classic and paged answer endpoints
type AnswerHandler struct {
	answerSvc *service.AnswerService
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerSvc *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerSvc: answerSvc}
}

// GetAnswers handles GET /api/userAnswers/{userId}/{cluster}
func (h *AnswerHandler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	answers, err := h.answerSvc.GetAnswers(r.Context(), userID, cluster)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.AnswerMap{"answers": answers})
}

// ReplaceAnswersRequest is the request body for replacing a cluster's
// answer map wholesale.
type ReplaceAnswersRequest struct {
	Answers model.AnswerMap `json:"answers"`
}

// ReplaceAnswers handles POST /api/userAnswers/{userId}/{cluster}
func (h *AnswerHandler) ReplaceAnswers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	var req ReplaceAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answers == nil {
		writeError(w, http.StatusBadRequest, "answers required")
		return
	}

	state, err := h.answerSvc.ReplaceAnswers(r.Context(), userID, cluster, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ApplyAnswerRequest is the request body for answering one question.
type ApplyAnswerRequest struct {
	QuestionID string            `json:"questionId"`
	Value      model.AnswerValue `json:"value"`
}

// ApplyAnswer handles POST /api/userAnswers/{userId}/{cluster}/answer
func (h *AnswerHandler) ApplyAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	var req ApplyAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId required")
		return
	}

	state, err := h.answerSvc.ApplyAnswer(r.Context(), userID, cluster, req.QuestionID, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Back handles POST /api/userAnswers/{userId}/{cluster}/back
func (h *AnswerHandler) Back(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	state, exited, err := h.answerSvc.Back(r.Context(), userID, cluster)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exited": exited,
		"state":  state,
	})
}

// ResetAnswers handles POST /api/userAnswers/{userId}/reset/{cluster}
func (h *AnswerHandler) ResetAnswers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	if err := h.answerSvc.ResetAnswers(r.Context(), userID, cluster); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GetPageAnswers handles GET /api/pageAnswers/{userId}/{cluster}
func (h *AnswerHandler) GetPageAnswers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	pageAnswers, err := h.answerSvc.GetPageAnswers(r.Context(), userID, cluster)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.PageAnswerMap{"pageAnswers": pageAnswers})
}

// GetPageAnswersForPage handles GET /api/pageAnswers/{userId}/{cluster}/{pageId}
func (h *AnswerHandler) GetPageAnswersForPage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	pageAnswers, err := h.answerSvc.GetPageAnswers(r.Context(), userID, vars["cluster"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	answers := pageAnswers[vars["pageId"]]
	if answers == nil {
		answers = model.AnswerMap{}
	}
	writeJSON(w, http.StatusOK, map[string]model.AnswerMap{"answers": answers})
}

// SubmitPageRequest is the request body for a full page submission.
type SubmitPageRequest struct {
	Answers model.AnswerMap `json:"answers"`
}

// SubmitPage handles POST /api/pageAnswers/{userId}/{cluster}/{pageId}
func (h *AnswerHandler) SubmitPage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	var req SubmitPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answers == nil {
		writeError(w, http.StatusBadRequest, "answers required")
		return
	}

	result, err := h.answerSvc.ApplyPageAnswers(r.Context(), userID, vars["cluster"], vars["pageId"], req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"state":        result.State,
		"clearedPages": clearedOrEmpty(result.ClearedPages),
	})
}

// PageBack handles POST /api/pageAnswers/{userId}/{cluster}/back
func (h *AnswerHandler) PageBack(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	result, exited, err := h.answerSvc.PageBack(r.Context(), userID, cluster)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exited":       exited,
		"state":        result.State,
		"clearedPages": clearedOrEmpty(result.ClearedPages),
	})
}

// ResetPageAnswers handles POST /api/pageAnswers/{userId}/{cluster}/reset
func (h *AnswerHandler) ResetPageAnswers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	cluster := mux.Vars(r)["cluster"]

	if err := h.answerSvc.ResetPageAnswers(r.Context(), userID, cluster); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func clearedOrEmpty(cleared []string) []string {
	if cleared == nil {
		return []string{}
	}
	return cleared
}
