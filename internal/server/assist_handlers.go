package server

import (
	"net/http"
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"github.com/gin-gonic/gin"
)

type parseRequestPayload struct {
	Text string `json:"text"`
}

type rewriteRequestPayload struct {
	Section string `json:"section"`
	Text    string `json:"text"`
}

type scoreRequestPayload struct {
	Content        resume.Content `json:"content"`
	JobDescription string         `json:"jobDescription"`
}

type summaryRequestPayload struct {
	Content resume.Content `json:"content"`
}

// handleAssistParse never fails on model errors; the pattern extractor
// answers instead.
func (h *httpHandler) handleAssistParse(c *gin.Context) {
	var request parseRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	c.JSON(http.StatusOK, h.assist.ParseFreeText(c.Request.Context(), request.Text))
}

func (h *httpHandler) handleAssistRewrite(c *gin.Context) {
	var request rewriteRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	text, err := h.assist.RewriteSection(c.Request.Context(), request.Section, request.Text)
	if err != nil {
		h.respondError(c, "server.assist.rewrite", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *httpHandler) handleAssistScore(c *gin.Context) {
	var request scoreRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	match, err := h.assist.ScoreAgainstJob(c.Request.Context(), request.Content, request.JobDescription)
	if err != nil {
		h.respondError(c, "server.assist.score", err)
		return
	}
	c.JSON(http.StatusOK, match)
}

func (h *httpHandler) handleAssistSummary(c *gin.Context) {
	var request summaryRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	summary, err := h.assist.GenerateSummary(c.Request.Context(), request.Content)
	if err != nil {
		h.respondError(c, "server.assist.summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
