package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/nurpe/contratos-service/internal/model"
	"github.com/nurpe/contratos-service/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	router.GET("/", h.listContracts)
	router.POST("/", h.mutateContracts)
}

// mutateRequest is the write envelope: one action plus its payload. The
// envelope is validated before the backing sheet is touched.
type mutateRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

func (r mutateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action, validation.Required),
		validation.Field(&r.Payload, validation.Required, validation.By(notJSONNull)),
	)
}

// A payload of JSON null would decode into a zero-value record and write an
// all-blank row; it counts as missing.
func notJSONNull(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errors.New("is required")
	}
	return nil
}

type deletePayload struct {
	ID string `json:"id"`
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.contracts.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list contracts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *Handler) mutateContracts(c *gin.Context) {
	var req mutateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action or payload missing: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action or payload missing: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case "CREATE":
		var draft model.Contract
		if err := json.Unmarshal(req.Payload, &draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload: " + err.Error()})
			return
		}
		created, err := h.contracts.Create(ctx, draft)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)

	case "UPDATE":
		var contract model.Contract
		if err := json.Unmarshal(req.Payload, &contract); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload: " + err.Error()})
			return
		}
		updated, err := h.contracts.Update(ctx, contract)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)

	case "DELETE":
		var payload deletePayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload: " + err.Error()})
			return
		}
		key, err := h.contracts.Delete(ctx, payload.ID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": key})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized action: " + req.Action})
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLockTimeout):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSchemaMismatch), errors.Is(err, service.ErrStoreUnavailable):
		h.log.Error().Err(err).Msg("store fault")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("contract mutation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
