package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/imgvault/internal/model"
	appErr "github.com/xxxsen/imgvault/internal/pkg/errors"
	"github.com/xxxsen/imgvault/internal/pkg/response"
	"github.com/xxxsen/imgvault/internal/service"
)

const fileNameHeader = "X-File-Name"

type UploadHandler struct {
	uploads  *service.UploadService
	maxBytes int64
}

func NewUploadHandler(uploads *service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxBytes: maxBytes}
}

// UploadImage accepts a raw image body. Content-Type must name the format
// exactly; X-File-Name is echoed back untouched.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	resp, err := h.uploads.Upload(c.Request.Context(), service.UploadRequest{
		UserID:      getUserID(c),
		ContentType: c.GetHeader("Content-Type"),
		Body:        c.Request.Body,
		FileName:    c.GetHeader(fileNameHeader),
	})
	if errors.Is(err, appErr.ErrTooLarge) {
		response.Error(c, http.StatusBadRequest, "invalid_body", "request body exceeds "+formatUploadLimit(h.maxBytes))
		return
	}
	if err != nil {
		handleError(c, err, "upload_failed")
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *UploadHandler) MyImages(c *gin.Context) {
	items, err := h.uploads.History(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err, "list_failed")
		return
	}
	response.Success(c, http.StatusOK, model.ListUploadsResponse{Type: "listUploads", Assets: items})
}
