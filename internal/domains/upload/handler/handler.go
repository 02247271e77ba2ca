package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"plik-backend/internal/domains/upload/model"
	"plik-backend/internal/domains/upload/service"
	"plik-backend/internal/infrastructure/storage"
	"plik-backend/internal/shared/response"
	"plik-backend/pkg/logger"
)

// maxRequestBytes bounds the whole multipart body, several images at most.
const maxRequestBytes = 10 << 20

type UploadHandler struct {
	uploadService service.ServiceInterface
}

func NewUploadHandler(uploadService service.ServiceInterface) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadImage stores blog images for the admin editor
// POST /api/v1/upload-image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	// Step 1: Parse multipart, files under "files" or "file"
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "No files provided")
		return
	}
	headers := append(form.File["files"], form.File["file"]...)
	if len(headers) == 0 {
		response.BadRequest(c, "No files provided")
		return
	}

	// Step 2: Read parts
	files := make([]model.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			logger.Error("failed to read upload part", err)
			response.BadRequest(c, fmt.Sprintf("Could not read file %s", fh.Filename))
			return
		}
		files = append(files, f)
	}

	// Step 3: Store
	resp, err := h.uploadService.UploadImages(c.Request.Context(), files)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// readPart reads at most one byte past the limit so oversize parts still fail validation.
func readPart(fh *multipart.FileHeader) (model.File, error) {
	src, err := fh.Open()
	if err != nil {
		return model.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, storage.MaxImageSize+1))
	if err != nil {
		return model.File{}, err
	}

	return model.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

func (h *UploadHandler) handleError(c *gin.Context, err error) {
	status, code := mapUploadError(err)

	var ue *model.UploadError
	if !errors.As(err, &ue) {
		logger.Error("upload failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("upload storage failed", err)
	}
	response.ErrorResponse(c, status, code, ue.Message)
}

func mapUploadError(err error) (int, string) {
	var ue *model.UploadError
	if errors.As(err, &ue) {
		switch ue.Code {
		case model.ErrCodeNoFiles, model.ErrCodeFileTooLarge, model.ErrCodeInvalidType:
			return http.StatusBadRequest, ue.Code
		case model.ErrCodeStorageFailed:
			return http.StatusInternalServerError, ue.Code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
