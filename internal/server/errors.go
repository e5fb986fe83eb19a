package server

import (
	"errors"
	"net/http"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/assist"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/export"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/extract"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/session"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInvalidUpload = errors.New("server: invalid upload")

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{target: errInvalidUpload, status: http.StatusBadRequest, code: "invalid_upload"},
	{target: documents.ErrNotFound, status: http.StatusNotFound, code: "document_not_found"},
	{target: documents.ErrPermissionDenied, status: http.StatusForbidden, code: "permission_denied"},
	{target: documents.ErrInvalidDocumentID, status: http.StatusBadRequest, code: "invalid_document_id"},
	{target: session.ErrSessionNotFound, status: http.StatusNotFound, code: "session_not_found"},
	{target: session.ErrSessionClosed, status: http.StatusConflict, code: "session_closed"},
	{target: session.ErrScratchSession, status: http.StatusConflict, code: "scratch_session"},
	{target: editor.ErrUnknownOperation, status: http.StatusBadRequest, code: "unknown_operation"},
	{target: editor.ErrInvalidCommand, status: http.StatusBadRequest, code: "invalid_command"},
	{target: resume.ErrInvalidTemplate, status: http.StatusBadRequest, code: "invalid_template"},
	{target: resume.ErrInvalidSectionOrder, status: http.StatusBadRequest, code: "invalid_section_order"},
	{target: assist.ErrNotConfigured, status: http.StatusServiceUnavailable, code: "ai_not_configured"},
	{target: assist.ErrServiceFailure, status: http.StatusBadGateway, code: "ai_unavailable"},
	{target: assist.ErrEmptyInput, status: http.StatusBadRequest, code: "empty_input"},
	{target: export.ErrUnknownFormat, status: http.StatusBadRequest, code: "unknown_format"},
	{target: export.ErrPDFUnavailable, status: http.StatusServiceUnavailable, code: "pdf_unavailable"},
	{target: extract.ErrUnsupportedType, status: http.StatusUnsupportedMediaType, code: "unsupported_file_type"},
	{target: extract.ErrNoText, status: http.StatusUnprocessableEntity, code: "no_text"},
	{target: storage.ErrObjectNotFound, status: http.StatusNotFound, code: "artifact_not_found"},
	{target: storage.ErrInvalidKey, status: http.StatusBadRequest, code: "invalid_artifact_key"},
}

// respondError maps err to a status and a stable error code.
func (h *httpHandler) respondError(c *gin.Context, operation string, err error) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			c.JSON(mapping.status, gin.H{"error": mapping.code})
			return
		}
	}

	code := "internal_error"
	var serviceErr *documents.ServiceError
	if errors.As(err, &serviceErr) {
		code = serviceErr.Code()
	}
	h.logger.Error("request failed",
		zap.String("operation", operation),
		zap.String("reason", code),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": code})
}
