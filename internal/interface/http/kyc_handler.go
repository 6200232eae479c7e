package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/application"
	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/response"
)

const maxDocumentImage = 10 << 20

type KYCHandler struct {
	Svc KYCUseCase
}

func NewKYCHandler(svc KYCUseCase) *KYCHandler { return &KYCHandler{Svc: svc} }

type kycForm struct {
	DocumentType string `form:"document_type" binding:"required,doctype"`
	DocumentData string `form:"document_data"`
}

var errImageTooLarge = errors.New("image exceeds 10MB")

func readImage(c *gin.Context, field string, page int) (*entity.DocumentImage, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > maxDocumentImage {
		return nil, errImageTooLarge
	}
	return loadImage(fh, page)
}

func loadImage(fh *multipart.FileHeader, page int) (*entity.DocumentImage, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, maxDocumentImage+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentImage {
		return nil, errImageTooLarge
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return &entity.DocumentImage{Page: page, Filename: fh.Filename, ContentType: ct, Data: data}, nil
}

// readSubmission reads document_type, document_data (a JSON object of
// strings) and the front_image, back_image and selfie_image files.
func readSubmission(c *gin.Context) (application.KYCSubmission, bool) {
	var form kycForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"document_type": "must be one of cni, passport or permit"})
		return application.KYCSubmission{}, false
	}
	in := application.KYCSubmission{DocumentType: form.DocumentType}
	if form.DocumentData != "" {
		if err := json.Unmarshal([]byte(form.DocumentData), &in.DocumentData); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"document_data": "must be a JSON object of strings"})
			return application.KYCSubmission{}, false
		}
	}
	for _, f := range []struct {
		field string
		page  int
		dst   **entity.DocumentImage
	}{
		{"front_image", 0, &in.Front},
		{"back_image", 1, &in.Back},
		{"selfie_image", 0, &in.Selfie},
	} {
		img, err := readImage(c, f.field, f.page)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid "+f.field, err.Error())
			return application.KYCSubmission{}, false
		}
		*f.dst = img
	}
	return in, true
}

func (h *KYCHandler) Submit(c *gin.Context) {
	in, ok := readSubmission(c)
	if !ok {
		return
	}
	rep, err := h.Svc.Submit(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep, "document processed", nil)
}

// Verify takes the same form as Submit and stores nothing.
func (h *KYCHandler) Verify(c *gin.Context) {
	in, ok := readSubmission(c)
	if !ok {
		return
	}
	rep, err := h.Svc.Verify(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep, "document verified", nil)
}

func (h *KYCHandler) Selfie(c *gin.Context) {
	selfie, err := readImage(c, "selfie_image", 0)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid selfie_image", err.Error())
		return
	}
	rep, err := h.Svc.SubmitSelfie(c.Request.Context(), middleware.UserID(c), selfie)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep, "selfie stored", nil)
}
