package handlers

import (
	"errors"
	"io"
	"net/http"

	"poultry_farm_backend/internal/bridge"
	"poultry_farm_backend/internal/services"
	"poultry_farm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvokeRequest carries the positional arguments of one bridge call.
type InvokeRequest struct {
	Args bridge.Args `json:"args"`
}

// BridgeHandler exposes the operation table over HTTP.
type BridgeHandler struct {
	bridge *bridge.Bridge
}

func NewBridgeHandler(b *bridge.Bridge) *BridgeHandler {
	return &BridgeHandler{bridge: b}
}

// Invoke handles POST /invoke/:operation.
func (h *BridgeHandler) Invoke(c *gin.Context) {
	name := c.Param("operation")
	if _, ok := h.bridge.Lookup(name); !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeUnknownOperation, "Unknown operation.", name))
		return
	}

	var req InvokeRequest
	// An empty body, sized or chunked, is a call without arguments.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload: "+err.Error(), err.Error()))
			return
		}
	}

	result, err := h.bridge.Invoke(c.Request.Context(), name, req.Args)
	if err != nil {
		utils.RespondWithError(c, apiErrorFor(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListOperations handles GET /operations.
func (h *BridgeHandler) ListOperations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.bridge.Operations()})
}

// apiErrorFor maps service error categories onto HTTP responses.
// Store failures never leak their text to the caller.
func apiErrorFor(err error) *utils.APIError {
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), "")
	case errors.Is(err, bridge.ErrUnknownOperation):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeUnknownOperation, err.Error(), "")
	case errors.Is(err, services.ErrNotFound):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), "")
	case errors.Is(err, services.ErrInsufficientStock):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeInsufficientStock, err.Error(), "")
	case errors.Is(err, services.ErrLedgerInconsistent):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeInconsistentLedger, err.Error(), "")
	case errors.Is(err, services.ErrInUse), errors.Is(err, services.ErrDuplicate):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), "")
	default:
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "The record store failed to complete the operation.", "Internal error")
	}
}
