package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-eval-api/internal/dto"
	"github.com/noah-isme/school-eval-api/internal/models"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/response"
)

// multipartOverhead leaves room for boundaries and form fields around the file part.
const multipartOverhead = 1 << 20

type evidenceService interface {
	AttachUpload(ctx context.Context, itemID int64, content io.ReadSeeker, upload dto.EvidenceUpload) (*models.EvidenceFile, error)
	AttachLink(ctx context.Context, itemID int64, req dto.EvidenceLinkRequest) (*models.EvidenceFile, error)
	Detach(ctx context.Context, id int64) error
}

// EvidenceHandler exposes the evidence lifecycle.
type EvidenceHandler struct {
	service   evidenceService
	maxUpload int64
}

// NewEvidenceHandler constructs an evidence handler. maxUpload <= 0 disables the size check.
func NewEvidenceHandler(service evidenceService, maxUpload int64) *EvidenceHandler {
	return &EvidenceHandler{service: service, maxUpload: maxUpload}
}

// Upload godoc
// @Summary Upload an evidence file for a checklist item
// @Tags Evidence
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Checklist item ID"
// @Param file formData file true "Evidence file"
// @Param uploadedBy formData string false "Uploader name"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /checklist-items/{id}/evidence [post]
func (h *EvidenceHandler) Upload(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "file exceeds upload limit"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "file is required"))
		return
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "file exceeds upload limit"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "unable to read uploaded file"))
		return
	}
	defer file.Close()

	evidence, err := h.service.AttachUpload(c.Request.Context(), id, file, dto.EvidenceUpload{
		Filename:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		Size:       header.Size,
		UploadedBy: c.PostForm("uploadedBy"),
		BaseURL:    requestBaseURL(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evidence)
}

// AttachLink godoc
// @Summary Attach an external link as evidence
// @Tags Evidence
// @Accept json
// @Produce json
// @Param id path int true "Checklist item ID"
// @Param payload body dto.EvidenceLinkRequest true "Evidence link"
// @Success 201 {object} response.Envelope
// @Router /checklist-items/{id}/evidence-link [post]
func (h *EvidenceHandler) AttachLink(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EvidenceLinkRequest
	if !bindJSON(c, &req, "invalid evidence link payload") {
		return
	}
	evidence, err := h.service.AttachLink(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evidence)
}

// Delete godoc
// @Summary Delete evidence and its stored blob
// @Tags Evidence
// @Produce json
// @Param id path int true "Evidence ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /evidence/{id} [delete]
func (h *EvidenceHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Detach(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DeleteResult{OK: true}, nil)
}
