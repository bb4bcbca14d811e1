package handler

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/service/ingest"
	"github.com/KasumiMercury/flock-watch/internal/service/pinstore"
	"github.com/KasumiMercury/flock-watch/internal/service/uplink"
)

type PinHandler struct {
	ingest *ingest.Service
	pins   *pinstore.Store
}

func NewPinHandler(ingestService *ingest.Service, pins *pinstore.Store) *PinHandler {
	return &PinHandler{
		ingest: ingestService,
		pins:   pins,
	}
}

// pinRequest is the network server's uplink event with the decoded payload
// as a raw JSON string.
type pinRequest struct {
	ObjectJSON string `json:"objectJSON"`
	DevEUI     string `json:"devEUI"`
	DeviceName string `json:"deviceName"`
}

type uplinkRequest struct {
	Data       string `json:"data"`
	DevEUI     string `json:"devEUI"`
	DeviceName string `json:"deviceName"`
	Name       string `json:"name"`
}

type deleteAllResponse struct {
	Deleted int `json:"deleted"`
}

func (h *PinHandler) HandleList(c *gin.Context) {
	pins, err := h.pins.FindAll(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, pins)
}

func (h *PinHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	h.create(c, ingest.Request{
		ObjectJSON: req.ObjectJSON,
		DevEUI:     req.DevEUI,
		DeviceName: req.DeviceName,
	})
}

// HandleUplink accepts a base64 encoded tag frame and ingests its decoded form.
func (h *PinHandler) HandleUplink(c *gin.Context) {
	ctx := c.Request.Context()

	var req uplinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		respondDomainError(c, fmt.Errorf("%w: data is not base64: %w", domain.ErrMalformedPayload, err))
		return
	}

	name := req.Name
	if name == "" {
		name = req.DeviceName
	}

	frame, err := uplink.Decode(data, name)
	if err != nil {
		slog.WarnContext(ctx, "uplink frame rejected",
			slog.String("dev_eui", req.DevEUI),
			slog.Int("frame_length", len(data)),
			slog.String("error", err.Error()),
		)
		respondDomainError(c, err)
		return
	}

	objectJSON, err := frame.JSON()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.create(c, ingest.Request{
		ObjectJSON: objectJSON,
		DevEUI:     req.DevEUI,
		DeviceName: req.DeviceName,
	})
}

func (h *PinHandler) create(c *gin.Context, req ingest.Request) {
	pin, err := h.ingest.Ingest(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pin)
}

func (h *PinHandler) HandleGetBySubject(c *gin.Context) {
	pin, err := h.pins.FindBySubject(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, pin)
}

func (h *PinHandler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	pin, err := h.pins.DeleteByID(ctx, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	slog.InfoContext(ctx, "pin deleted", slog.String("pin_id", id))
	c.JSON(http.StatusOK, pin)
}

func (h *PinHandler) HandleDeleteAll(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := h.pins.DeleteAll(ctx)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	slog.InfoContext(ctx, "pins deleted", slog.Int("count", n))
	c.JSON(http.StatusOK, deleteAllResponse{Deleted: n})
}
