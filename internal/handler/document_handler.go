package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/extractor"
	"github.com/docdexio/docdex/internal/filestore"
	"github.com/docdexio/docdex/internal/pkg/errcode"
	"github.com/docdexio/docdex/internal/pkg/response"
	"github.com/docdexio/docdex/internal/service"
)

// DocumentHandler exposes the upload lifecycle. Each mutating request
// carries a multipart file; the handler extracts its text, embeds it, and
// hands the result to the document service. The raw file is archived to the
// file store best-effort.
type DocumentHandler struct {
	documents      *service.DocumentService
	embedder       service.Embedder
	files          filestore.Store
	uploadMaxBytes int64
}

func NewDocumentHandler(documents *service.DocumentService, embedder service.Embedder, files filestore.Store, uploadMaxBytes int64) *DocumentHandler {
	return &DocumentHandler{
		documents:      documents,
		embedder:       embedder,
		files:          files,
		uploadMaxBytes: uploadMaxBytes,
	}
}

type uploadedFile struct {
	name      string
	fileType  string
	embedding []float32
	content   filestore.ReadSeekCloser
	size      int64
}

// readUpload validates the multipart part, extracts its text and embeds it.
// It writes the error response itself and returns false on failure.
func (h *DocumentHandler) readUpload(c *gin.Context) (*uploadedFile, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "file field is required")
		return nil, false
	}
	if h.uploadMaxBytes > 0 && header.Size > h.uploadMaxBytes {
		response.Error(c, http.StatusBadRequest, errcode.ErrUploadFailed, "file exceeds upload limit of "+formatUploadLimit(h.uploadMaxBytes))
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrUploadFailed, "cannot read uploaded file")
		return nil, false
	}

	text, err := extractor.Extract(header.Filename, file, header.Size)
	if err != nil {
		_ = file.Close()
		handleError(c, err)
		return nil, false
	}
	embedding, err := h.embedder.Embed(c.Request.Context(), text, "RETRIEVAL_DOCUMENT")
	if err != nil {
		_ = file.Close()
		handleError(c, err)
		return nil, false
	}
	return &uploadedFile{
		name:      header.Filename,
		fileType:  strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), "."),
		embedding: embedding,
		content:   file,
		size:      header.Size,
	}, true
}

func (h *DocumentHandler) archive(c *gin.Context, assetID string, up *uploadedFile) {
	defer func() { _ = up.content.Close() }()
	if h.files == nil {
		return
	}
	if _, err := up.content.Seek(0, 0); err != nil {
		logutil.GetLogger(c.Request.Context()).Warn("rewind upload for archive failed",
			zap.String("asset_id", assetID), zap.Error(err))
		return
	}
	if err := h.files.Save(c.Request.Context(), assetID, up.content, up.size); err != nil {
		logutil.GetLogger(c.Request.Context()).Warn("archive upload failed",
			zap.String("asset_id", assetID), zap.Error(err))
	}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	assetID, err := h.documents.Create(c.Request.Context(), up.name, up.fileType, up.embedding)
	if err != nil {
		_ = up.content.Close()
		handleError(c, err)
		return
	}
	h.archive(c, assetID, up)
	response.Created(c, gin.H{"asset_id": assetID})
}

func (h *DocumentHandler) Update(c *gin.Context) {
	assetID := c.Param("asset_id")
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	if err := h.documents.Update(c.Request.Context(), assetID, up.name, up.fileType, up.embedding); err != nil {
		_ = up.content.Close()
		handleError(c, err)
		return
	}
	h.archive(c, assetID, up)
	response.Success(c, gin.H{"asset_id": assetID})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	view, err := h.documents.Get(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	assetID := c.Param("asset_id")
	if err := h.documents.Delete(c.Request.Context(), assetID); err != nil {
		handleError(c, err)
		return
	}
	if h.files != nil {
		if err := h.files.Delete(c.Request.Context(), assetID); err != nil {
			logutil.GetLogger(c.Request.Context()).Warn("archived file delete failed",
				zap.String("asset_id", assetID), zap.Error(err))
		}
	}
	response.Success(c, gin.H{"ok": true})
}
