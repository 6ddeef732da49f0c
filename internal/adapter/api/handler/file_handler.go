package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/infrastructure/storage"
	ws "pasarsosmed/internal/infrastructure/websocket"
	"pasarsosmed/pkg/errors"
	"pasarsosmed/pkg/response"
)

type FileHandler struct {
	gcsClient *storage.GCSClient
	wsManager *ws.Manager
}

func NewFileHandler(gcsClient *storage.GCSClient, wsManager *ws.Manager) *FileHandler {
	return &FileHandler{
		gcsClient: gcsClient,
		wsManager: wsManager,
	}
}

// Upload stores a multipart file in the bucket and returns its public URL.
// Progress is streamed to the uploader's WebSocket connection so big media
// uploads can show a bar.
func (h *FileHandler) Upload(c echo.Context) error {
	uid := c.Get("uid").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing file field", err))
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "uploads"
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read upload", err))
	}
	defer file.Close()

	total := fileHeader.Size
	progress := func(written int64) {
		payload, _ := json.Marshal(map[string]interface{}{
			"type":    "upload_progress",
			"written": written,
			"total":   total,
		})
		h.wsManager.SendToUser(uid, payload)
	}

	url, err := h.gcsClient.UploadFile(
		c.Request().Context(),
		folder,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		progress,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"url": url})
}

type deleteFileRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (h *FileHandler) Delete(c echo.Context) error {
	var req deleteFileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.gcsClient.DeleteFile(c.Request().Context(), req.URL); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "deleted"})
}
