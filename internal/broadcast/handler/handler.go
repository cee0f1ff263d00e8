// Package handler exposes the broadcast operations over HTTP.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"wholesale_portal_backend/internal/broadcast/service"
	"wholesale_portal_backend/internal/broadcast/transport"
	"wholesale_portal_backend/platform/httpkit"
	"wholesale_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts all broadcast endpoints. renderLimited guards the
// expensive image/PDF renders.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, renderLimited gin.HandlerFunc) {
	rg.POST("/preview", h.Preview)
	rg.POST("/compact", h.Compact)
	rg.POST("/truncate", h.Truncate)
	rg.POST("/whatsapp-link", h.WhatsAppLink)
	rg.GET("/links/property/:id", h.PropertyLink)
	rg.GET("/history", h.History)

	rg.POST("/collage", renderLimited, h.Collage)
	rg.POST("/flyer", renderLimited, h.Flyer)
	rg.POST("/flyer/archive", renderLimited, h.FlyerArchive)
	rg.POST("/flyer/email", renderLimited, h.FlyerEmail)
}

func (h *Handler) Preview(c *gin.Context) {
	var req transport.PreviewRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Preview(c.Request.Context(), req, httpkit.UserID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Compact(c *gin.Context) {
	var req transport.CompactRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Compact(c.Request.Context(), req, httpkit.UserID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Truncate(c *gin.Context) {
	var req transport.TruncateRequest
	if !h.bind(c, &req) {
		return
	}
	httpkit.OK(c, h.svc.Truncate(req))
}

func (h *Handler) Collage(c *gin.Context) {
	var req transport.CollageRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Collage(c.Request.Context(), req, httpkit.UserID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Flyer streams the rendered PDF as an attachment download.
func (h *Handler) Flyer(c *gin.Context) {
	var req transport.FlyerRequest
	if !h.bind(c, &req) {
		return
	}

	pdf, filename, err := h.svc.Flyer(c.Request.Context(), req, httpkit.UserID(c))
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) FlyerArchive(c *gin.Context) {
	var req transport.FlyerRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.FlyerArchive(c.Request.Context(), req, httpkit.UserID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) FlyerEmail(c *gin.Context) {
	var req transport.FlyerEmailRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.svc.FlyerEmail(c.Request.Context(), req, httpkit.UserID(c)); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"sent": true})
}

func (h *Handler) WhatsAppLink(c *gin.Context) {
	var req transport.WhatsAppLinkRequest
	if !h.bind(c, &req) {
		return
	}
	httpkit.OK(c, h.svc.WhatsAppLink(req))
}

func (h *Handler) PropertyLink(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "missing property id")
		return
	}
	httpkit.OK(c, h.svc.PropertyLink(id))
}

func (h *Handler) History(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	resp, err := h.svc.History(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// bind decodes and validates a JSON request body. On failure it writes the
// error response and returns false.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
