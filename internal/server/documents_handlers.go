package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/extract"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"github.com/gin-gonic/gin"
)

type createDocumentPayload struct {
	Title    string          `json:"title"`
	Template string          `json:"template"`
	Content  *resume.Content `json:"content"`
}

type importDocumentPayload struct {
	Title    string `json:"title"`
	Template string `json:"template"`
	Text     string `json:"text"`
}

func (h *httpHandler) handleListDocuments(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	summaries, err := h.documents.List(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, "server.documents.list", err)
		return
	}
	if summaries == nil {
		summaries = []documents.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": summaries})
}

func (h *httpHandler) handleCreateDocument(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	var request createDocumentPayload
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	template, err := resume.ParseTemplate(request.Template)
	if err != nil {
		h.respondError(c, "server.documents.create", err)
		return
	}

	id, err := h.documents.Create(c.Request.Context(), owner, documents.CreateInput{
		Title:    request.Title,
		Template: template,
		Content:  request.Content,
	})
	if err != nil {
		h.respondError(c, "server.documents.create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

func (h *httpHandler) handleGetDocument(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.documentID(c, "id")
	if !ok {
		return
	}
	document, err := h.documents.Load(c.Request.Context(), owner, id)
	if err != nil {
		h.respondError(c, "server.documents.get", err)
		return
	}
	c.JSON(http.StatusOK, document)
}

// handleDeleteDocument drops any open session for the document unsaved
// before deleting it.
func (h *httpHandler) handleDeleteDocument(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.documentID(c, "id")
	if !ok {
		return
	}
	if err := h.documents.Delete(c.Request.Context(), owner, id); err != nil {
		h.respondError(c, "server.documents.delete", err)
		return
	}
	h.sessions.Discard(owner, id)
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleDuplicateDocument(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.documentID(c, "id")
	if !ok {
		return
	}
	copyID, err := h.documents.Duplicate(c.Request.Context(), owner, id)
	if err != nil {
		h.respondError(c, "server.documents.duplicate", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": copyID.String()})
}

// handleImportDocument turns an uploaded file or pasted text into a new
// document.
func (h *httpHandler) handleImportDocument(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var request importDocumentPayload
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		text, err := h.readUploadedText(c)
		if err != nil {
			h.respondError(c, "server.documents.import", err)
			return
		}
		request.Text = text
		request.Title = c.PostForm("title")
		request.Template = c.PostForm("template")
	} else if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if strings.TrimSpace(request.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_input"})
		return
	}
	template, err := resume.ParseTemplate(request.Template)
	if err != nil {
		h.respondError(c, "server.documents.import", err)
		return
	}

	parsed := h.assist.ParseFreeText(c.Request.Context(), request.Text)
	title := request.Title
	if strings.TrimSpace(title) == "" && parsed.Content.Personal.Name != "" {
		title = parsed.Content.Personal.Name
	}
	id, err := h.documents.Create(c.Request.Context(), owner, documents.CreateInput{
		Title:    title,
		Template: template,
		Content:  &parsed.Content,
	})
	if err != nil {
		h.respondError(c, "server.documents.import", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String(), "fallback": parsed.Fallback})
}

func (h *httpHandler) readUploadedText(c *gin.Context) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", errInvalidUpload
	}
	file, err := header.Open()
	if err != nil {
		return "", errInvalidUpload
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", errInvalidUpload
	}
	return extract.Text(c.Request.Context(), data, header.Header.Get("Content-Type"), header.Filename)
}
