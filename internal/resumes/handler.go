package resumes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/uploads"
)

// multipartSlack covers the text fields and part headers around the headshot.
const multipartSlack = 1 << 20

const createdMessage = "Resume created successfully!"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = uploads.DefaultMaxBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches resume routes. createMiddleware runs only in front of the create endpoint.
func (h *Handler) RegisterRoutes(rg gin.IRoutes, createMiddleware ...gin.HandlerFunc) {
	create := append(append([]gin.HandlerFunc{}, createMiddleware...), h.create)
	rg.POST("/resume/create", create...)
	rg.GET("/resume", h.list)
	rg.GET("/resume/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartSlack)

	headshot, err := c.FormFile(uploads.FieldName)
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "File too large", uploads.ErrAttachmentTooLarge.Error())
			return
		}
		headshot = nil
	}

	record, err := h.Svc.Create(c.Request.Context(), CreateInput{
		Fields:   fieldsFromForm(c.Request.MultipartForm),
		Headshot: headshot,
	})
	if record.ID != "" {
		c.Set("resumeId", record.ID)
	}
	if err != nil {
		status, message := classify(err)
		respond.Error(c, status, message, err.Error())
		return
	}

	respond.Data(c, http.StatusOK, createdMessage, record)
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	respond.Data(c, http.StatusOK, "ok", records)
}

func (h *Handler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("resumeId", id)

	record, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Resume not found", err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	respond.Data(c, http.StatusOK, "ok", record)
}

// classify maps a create failure to its status and message label.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, uploads.ErrMissingAttachment):
		return http.StatusBadRequest, "Headshot image is required"
	case errors.Is(err, uploads.ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large"
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrMalformedWorkHistory):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, llm.ErrGenerationBackend):
		return http.StatusBadGateway, "Generation failed"
	default:
		return http.StatusInternalServerError, "Server Error"
	}
}

func fieldsFromForm(form *multipart.Form) RawFields {
	get := func(key string) string {
		if form == nil {
			return ""
		}
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	return RawFields{
		FullName:            get("fullName"),
		CurrentPosition:     get("currentPosition"),
		CurrentLength:       get("currentLength"),
		CurrentTechnologies: get("currentTechnologies"),
		WorkHistory:         get("workHistory"),
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
