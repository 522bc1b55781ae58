package signature

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/uploadgallery/service/internal/response"
)

// Handler holds the HTTP handler for the credential endpoint.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler creates a new signature Handler.
func NewHandler(svc *Service, l *zap.Logger) *Handler {
	return &Handler{svc: svc, log: l}
}

// UploadSignature godoc
//
//	@Summary		Issue an upload credential
//	@Description	Signs the current timestamp with the provider secret. The browser posts "fields" plus the file to "uploadUrl".
//	@Tags			upload
//	@Produce		json
//	@Success		200	{object}	Credential
//	@Failure		405	{object}	response.Message
//	@Failure		500	{object}	response.Message
//	@Router			/upload-signature [get]
func (h *Handler) UploadSignature(w http.ResponseWriter, r *http.Request) {
	cred, err := h.svc.Issue(r.Context())
	if err != nil {
		h.log.Error("issue upload credential", zap.Error(err))
		response.InternalError(w, "Failed to create upload signature.", err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.OK(w, cred)
}
