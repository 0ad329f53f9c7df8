package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/philippweder/wine-shop/internal/sommelier/service"
)

// Handler exposes the sommelier query service over HTTP.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// QueryRequest is the JSON body of a sommelier query.
type QueryRequest struct {
	Question string `json:"question"`
}

// SourceDocument is one retrieved document in a query response.
type SourceDocument struct {
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// QueryResponse is the JSON body of a sommelier answer. Failures carry an
// error message instead of an answer; the HTTP status encodes the failure
// class.
type QueryResponse struct {
	Answer          string           `json:"answer,omitempty"`
	SourceDocuments []SourceDocument `json:"source_documents,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// RegisterRoutes mounts the sommelier endpoints on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sommelier/query", h.Query)
}

// Query handles a sommelier query: it validates the question, runs retrieval
// and answer generation, and returns the answer with its source documents.
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, QueryResponse{Error: err.Error()})
		return
	}

	answer, err := h.service.Query(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(statusForError(err), QueryResponse{Error: err.Error()})
		return
	}

	resp := QueryResponse{Answer: answer.Text}
	for _, doc := range answer.Sources {
		resp.SourceDocuments = append(resp.SourceDocuments, SourceDocument{
			PageContent: doc.Text,
			Metadata:    doc.Metadata,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// statusForError maps the service's failure classes to HTTP status codes: a
// blank question is a client error, a missing index or credential means the
// service is unavailable until the operator acts, and everything else is an
// upstream failure the client may retry.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIndexMissing), errors.Is(err, service.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
