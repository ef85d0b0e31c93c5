package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"questline/internal/model"
	"questline/internal/service"
)

// ContentHandler handles questionnaire content endpoints
type ContentHandler struct {
	contentSvc *service.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentSvc *service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// Questionnaire handles GET /api/questionnaire/{cluster}
func (h *ContentHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	cluster := mux.Vars(r)["cluster"]

	questions, err := h.contentSvc.GetQuestionnaire(r.Context(), cluster)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Unknown clusters answer with an empty list, not a 404.
	writeJSON(w, http.StatusOK, questions)
}

// PagesResponse is the body of GET /api/pages/{cluster}
type PagesResponse struct {
	Title string       `json:"title"`
	Pages []model.Page `json:"pages"`
}

// Pages handles GET /api/pages/{cluster}
func (h *ContentHandler) Pages(w http.ResponseWriter, r *http.Request) {
	cluster := mux.Vars(r)["cluster"]

	title, pages, err := h.contentSvc.GetPages(r.Context(), cluster)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PagesResponse{Title: title, Pages: pages})
}

// CMSDocument is the whole content set as exchanged with the editor.
type CMSDocument struct {
	Clusters map[string]*model.Cluster `json:"clusters"`
}

// GetCMS handles GET /api/cms
func (h *ContentHandler) GetCMS(w http.ResponseWriter, r *http.Request) {
	clusters, err := h.contentSvc.ListClusters(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	doc := CMSDocument{Clusters: make(map[string]*model.Cluster, len(clusters))}
	for _, c := range clusters {
		doc.Clusters[c.Key] = c
	}
	writeJSON(w, http.StatusOK, doc)
}

// ReplaceCMS handles POST /api/cms
func (h *ContentHandler) ReplaceCMS(w http.ResponseWriter, r *http.Request) {
	var doc CMSDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clusters := make([]*model.Cluster, 0, len(doc.Clusters))
	for key, cluster := range doc.Clusters {
		if cluster == nil {
			continue
		}
		cluster.Key = key
		clusters = append(clusters, cluster)
	}

	if err := h.contentSvc.ReplaceContent(r.Context(), clusters); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
