package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/autosave"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/export"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/render"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/session"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const artifactKeyHeader = "X-Artifact-Key"

// sessionLookup resolves the session a request addresses, writing the error
// response itself when it cannot.
type sessionLookup func(c *gin.Context) (*session.Session, bool)

type sessionSnapshotPayload struct {
	ID        string          `json:"id"`
	Scratch   bool            `json:"scratch"`
	Document  resume.Document `json:"document"`
	Meta      editor.Meta     `json:"meta"`
	Revision  uint64          `json:"revision"`
	SaveState autosave.State  `json:"saveState"`
	SaveError string          `json:"saveError,omitempty"`
}

type mutationResponsePayload struct {
	Revision uint64      `json:"revision"`
	Meta     editor.Meta `json:"meta"`
}

func snapshotPayload(opened *session.Session) sessionSnapshotPayload {
	snapshot := opened.Snapshot()
	payload := sessionSnapshotPayload{
		ID:        opened.ID(),
		Scratch:   opened.IsScratch(),
		Document:  snapshot.Document,
		Meta:      snapshot.Meta,
		Revision:  snapshot.Revision,
		SaveState: opened.SaveState(),
	}
	if err := opened.LastSaveError(); err != nil {
		payload.SaveError = "save_failed"
	}
	return payload
}

func (h *httpHandler) registerSessionRoutes(group *gin.RouterGroup, lookup sessionLookup) {
	group.GET("", h.withSession(lookup, h.handleSnapshot))
	group.POST("/mutations", h.withSession(lookup, h.handleMutation))
	group.GET("/layout", h.withSession(lookup, h.handleLayout))
	group.GET("/preview", h.withSession(lookup, h.handlePreview))
	group.GET("/live", h.withSession(lookup, h.handleLive))
	group.GET("/export/:format", h.withSession(lookup, h.handleExport))
}

func (h *httpHandler) withSession(lookup sessionLookup, next func(*gin.Context, *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		opened, ok := lookup(c)
		if !ok {
			return
		}
		next(c, opened)
	}
}

func (h *httpHandler) lookupSession(c *gin.Context) (*session.Session, bool) {
	owner, ok := h.ownerID(c)
	if !ok {
		return nil, false
	}
	id, ok := h.documentID(c, "id")
	if !ok {
		return nil, false
	}
	opened, err := h.sessions.Get(owner, id)
	if err != nil {
		h.respondError(c, "server.sessions.lookup", err)
		return nil, false
	}
	return opened, true
}

func (h *httpHandler) lookupScratch(c *gin.Context) (*session.Session, bool) {
	opened, err := h.sessions.Scratch(c.Param("id"))
	if err != nil {
		h.respondError(c, "server.scratch.lookup", err)
		return nil, false
	}
	return opened, true
}

func (h *httpHandler) handleOpenSession(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.documentID(c, "id")
	if !ok {
		return
	}
	opened, err := h.sessions.Open(c.Request.Context(), owner, id)
	if err != nil {
		h.respondError(c, "server.sessions.open", err)
		return
	}
	c.JSON(http.StatusOK, snapshotPayload(opened))
}

func (h *httpHandler) handleCloseSession(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.documentID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.Close(c.Request.Context(), owner, id); err != nil {
		h.respondError(c, "server.sessions.close", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleOpenScratch(c *gin.Context) {
	opened, err := h.sessions.OpenScratch()
	if err != nil {
		h.respondError(c, "server.scratch.open", err)
		return
	}
	c.JSON(http.StatusCreated, snapshotPayload(opened))
}

func (h *httpHandler) handleCloseScratch(c *gin.Context) {
	if err := h.sessions.CloseScratch(c.Param("id")); err != nil {
		h.respondError(c, "server.scratch.close", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleSnapshot(c *gin.Context, opened *session.Session) {
	c.JSON(http.StatusOK, snapshotPayload(opened))
}

func (h *httpHandler) handleMutation(c *gin.Context, opened *session.Session) {
	var command editor.Command
	if err := c.ShouldBindJSON(&command); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if err := editor.Execute(opened.Store(), command); err != nil {
		h.respondError(c, "server.sessions.mutate", err)
		return
	}
	snapshot := opened.Snapshot()
	c.JSON(http.StatusOK, mutationResponsePayload{Revision: snapshot.Revision, Meta: snapshot.Meta})
}

func (h *httpHandler) handleSaveSession(c *gin.Context) {
	opened, ok := h.lookupSession(c)
	if !ok {
		return
	}
	if err := opened.ForceSave(c.Request.Context()); err != nil {
		h.respondError(c, "server.sessions.save", err)
		return
	}
	snapshot := opened.Snapshot()
	c.JSON(http.StatusOK, mutationResponsePayload{Revision: snapshot.Revision, Meta: snapshot.Meta})
}

func (h *httpHandler) handleLayout(c *gin.Context, opened *session.Session) {
	c.JSON(http.StatusOK, opened.Preview())
}

func (h *httpHandler) handlePreview(c *gin.Context, opened *session.Session) {
	page, err := render.HTML(opened.Layout())
	if err != nil {
		h.respondError(c, "server.sessions.preview", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// handleExport renders the session's current state. With archive=true the
// artifact is also stored under the owner's export prefix.
func (h *httpHandler) handleExport(c *gin.Context, opened *session.Session) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		h.respondError(c, "server.sessions.export", err)
		return
	}
	archive, _ := strconv.ParseBool(c.Query("archive"))
	if archive && (opened.IsScratch() || h.artifacts == nil) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive_unavailable"})
		return
	}

	snapshot := opened.Snapshot()
	artifact, err := h.exporter.Export(c.Request.Context(), snapshot.Document, format)
	if err != nil {
		h.respondError(c, "server.sessions.export", err)
		return
	}

	if archive {
		key := storage.ArtifactKey(opened.OwnerID().String(), opened.ID(), artifact.FileName)
		if _, err := h.artifacts.Put(c.Request.Context(), key, artifact.ContentType, bytes.NewReader(artifact.Data)); err != nil {
			h.logger.Error("artifact archive failed",
				zap.String("operation", "server.sessions.export"),
				zap.String("reason", "archive_failed"),
				zap.String("key", key),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "archive_failed"})
			return
		}
		c.Header(artifactKeyHeader, key)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// handleDownloadArchive streams a previously archived export owned by the caller.
func (h *httpHandler) handleDownloadArchive(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	if h.artifacts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive_unavailable"})
		return
	}
	id, ok := h.documentID(c, "documentId")
	if !ok {
		return
	}
	fileName := c.Param("fileName")
	reader, err := h.artifacts.Open(c.Request.Context(), storage.ArtifactKey(owner.String(), id.String(), fileName))
	if err != nil {
		h.respondError(c, "server.exports.download", err)
		return
	}
	defer reader.Close()

	contentType := "application/octet-stream"
	if format, err := export.ParseFormat(strings.TrimPrefix(path.Ext(fileName), ".")); err == nil {
		contentType = format.ContentType()
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Warn("artifact stream interrupted", zap.Error(err))
	}
}
