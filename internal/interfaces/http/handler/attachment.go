package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/backoffice/internal/domain/attachment"
	"github.com/erp/backoffice/internal/infrastructure/storage"
)

// uploadURLExpiry bounds how long a presigned upload or download URL
// stays valid.
const uploadURLExpiry = 15 * time.Minute

// AttachmentHandler manages receipt attachments: metadata rows in the
// database, binaries behind presigned object storage URLs.
type AttachmentHandler struct {
	BaseHandler
	files   attachment.Repository
	objects storage.ObjectStorage
	logger  *zap.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(files attachment.Repository, objects storage.ObjectStorage, logger *zap.Logger) *AttachmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentHandler{files: files, objects: objects, logger: logger}
}

// RegisterRoutes registers the attachment endpoints
func (h *AttachmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/attachments")
	{
		group.POST("/upload-url", h.CreateUploadURL)
		group.GET("/:id/download-url", h.CreateDownloadURL)
		group.DELETE("/:id", h.Delete)
	}
}

// CreateUploadURLRequest asks for a presigned upload slot
type CreateUploadURLRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// UploadURLResponse carries the presigned upload URL and the file ID
// to reference from receipts.
type UploadURLResponse struct {
	FileID    string    `json:"file_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	FileID      string    `json:"file_id"`
	Name        string    `json:"name"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreateUploadURL registers attachment metadata and returns a
// presigned URL the client uploads the binary to.
func (h *AttachmentHandler) CreateUploadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	var req CreateUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	objectKey := fmt.Sprintf("attachments/%s/%s/%s", tenantID, time.Now().Format("2006/01"), uuid.New())
	file, err := attachment.NewStoredFile(tenantID, req.Name, objectKey, req.ContentType, req.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		file.SetCreatedBy(userID)
	}

	url, expiresAt, err := h.objects.GenerateUploadURL(c.Request.Context(), objectKey, req.ContentType, uploadURLExpiry)
	if err != nil {
		h.InternalError(c, "Failed to generate upload URL")
		return
	}
	if err := h.files.Save(c.Request.Context(), file); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, UploadURLResponse{
		FileID:    file.ID.String(),
		UploadURL: url,
		ExpiresAt: expiresAt,
	})
}

// CreateDownloadURL returns a presigned download URL for an attachment
func (h *AttachmentHandler) CreateDownloadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	file, err := h.files.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	url, expiresAt, err := h.objects.GenerateDownloadURL(c.Request.Context(), file.ObjectKey, uploadURLExpiry)
	if err != nil {
		h.InternalError(c, "Failed to generate download URL")
		return
	}

	h.Success(c, DownloadURLResponse{
		FileID:      file.ID.String(),
		Name:        file.Name,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	})
}

// Delete removes an attachment's metadata and its stored object. The
// object delete is best-effort; a leaked binary is preferable to a
// dangling metadata row.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	file, err := h.files.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.files.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.objects.DeleteObject(c.Request.Context(), file.ObjectKey); err != nil {
		h.logger.Warn("failed to delete stored object",
			zap.String("object_key", file.ObjectKey),
			zap.Error(err))
	}

	h.Success(c, gin.H{"id": id.String()})
}
