package image

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/uploadgallery/service/internal/response"
)

const maxBodyBytes = 1 << 20

// Handler holds HTTP handlers for the upload record endpoints.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler creates a new image Handler.
func NewHandler(svc *Service, l *zap.Logger) *Handler {
	return &Handler{svc: svc, log: l}
}

type saveRequest struct {
	URL string `json:"url" example:"https://res.cloudinary.com/demo/image/upload/v1700000000/sample.jpg"`
}

type saveResponse struct {
	Message string `json:"message" example:"Image URL saved to database successfully!"`
	ID      string `json:"id"      example:"6553f1a2c0ffee0012345678"`
}

type imagesResponse struct {
	Images []Record `json:"images"`
}

// SaveImageURL godoc
//
//	@Summary		Record an uploaded image
//	@Description	Stores the public URL returned by the media host together with a server-assigned upload time. Saving the same URL twice creates two records.
//	@Tags			images
//	@Accept			json
//	@Produce		json
//	@Param			request	body		saveRequest	true	"Image URL"
//	@Success		200		{object}	saveResponse
//	@Failure		400		{object}	response.Message
//	@Failure		405		{object}	response.Message
//	@Failure		500		{object}	response.Message
//	@Router			/save-image-url [post]
func (h *Handler) SaveImageURL(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}

	rec, err := h.svc.Save(r.Context(), req.URL)
	if errors.Is(err, ErrEmptyURL) {
		response.BadRequest(w, "Image URL is required.")
		return
	}
	if err != nil {
		h.log.Error("save image url", zap.Error(err))
		response.InternalError(w, "Failed to save image URL to database.", err)
		return
	}

	h.log.Info("image url saved", zap.String("id", rec.ID), zap.String("url", rec.URL))
	response.OK(w, saveResponse{
		Message: "Image URL saved to database successfully!",
		ID:      rec.ID,
	})
}

// GetImages godoc
//
//	@Summary		List recent uploads
//	@Description	Returns the 20 most recent upload records, newest first.
//	@Tags			images
//	@Produce		json
//	@Success		200	{object}	imagesResponse
//	@Failure		405	{object}	response.Message
//	@Failure		500	{object}	response.Message
//	@Router			/get-images [get]
func (h *Handler) GetImages(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Recent(r.Context())
	if err != nil {
		h.log.Error("fetch images", zap.Error(err))
		response.InternalError(w, "Failed to fetch images from database.", err)
		return
	}

	response.OK(w, imagesResponse{Images: records})
}
