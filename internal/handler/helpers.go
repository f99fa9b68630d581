package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/ai"
	"github.com/docdexio/docdex/internal/pkg/errcode"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
	"github.com/docdexio/docdex/internal/pkg/response"
)

// handleError translates service-layer sentinels into the wire error
// envelope. Anything unrecognized becomes a 500 without leaking internals.
func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, appErr.ErrInvalidSession):
		response.Error(c, http.StatusNotFound, errcode.ErrInvalidSession, "invalid or expired chat session")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "document not found")
	case errors.Is(err, appErr.ErrUnsupported):
		response.Error(c, http.StatusBadRequest, errcode.ErrUnsupportedFile, "unsupported file type")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, "too many requests")
	case errors.Is(err, ai.ErrUnavailable):
		logutil.GetLogger(c.Request.Context()).Error("model call failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, errcode.ErrAIUnavailable, "model unavailable")
	case errors.Is(err, appErr.ErrRetrieval):
		logutil.GetLogger(c.Request.Context()).Error("retrieval failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, errcode.ErrRetrievalFailed, "retrieval failed")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}
