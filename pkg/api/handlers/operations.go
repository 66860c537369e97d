package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neatc0der/bacnet/pkg/api/types"
	"github.com/neatc0der/bacnet/pkg/backend"
	"github.com/neatc0der/bacnet/pkg/bacnet"
	"github.com/neatc0der/bacnet/pkg/bacnet/schema"
	"github.com/neatc0der/bacnet/pkg/engine"
)

// OperationsHandler handles property read and write endpoints
type OperationsHandler struct {
	sync      *engine.Engine
	validator *schema.Validator
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(sync *engine.Engine, validator *schema.Validator) *OperationsHandler {
	return &OperationsHandler{sync: sync, validator: validator}
}

// Read handles POST /api/v1/read
// @Summary      Read property
// @Description  Issues one backend read for a property, merges the result into the cache and returns the merged value
// @Tags         operations
// @Accept       json
// @Produce      json
// @Param        request  body  types.ReadRequest  true  "Property to read"
// @Success      200  {object}  types.ReadResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid request"
// @Failure      404  {object}  types.ErrorResponse  "Property unknown to the backend"
// @Failure      502  {object}  types.ErrorResponse  "Backend unreachable"
// @Router       /api/v1/read [post]
func (h *OperationsHandler) Read(c *gin.Context) {
	var req types.ReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	target := bacnet.Target{Device: req.Device, Object: req.Object, Property: req.Property}
	if err := h.sync.RefreshProperty(c.Request.Context(), target); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "backend does not know " + target.String(),
			})
			return
		}
		c.JSON(http.StatusBadGateway, types.ErrorResponse{
			Error:   "backend_unreachable",
			Message: err.Error(),
		})
		return
	}

	var (
		info  types.PropertyInfo
		found bool
	)
	h.sync.Inspect(func(s *engine.State) {
		res := s.Lookup(req.Device, req.Object, req.Property)
		if res.Property != nil {
			info = types.PropertyInfo{
				Name:    res.Property.Name,
				Value:   res.Property.Value,
				Updated: res.Property.Updated,
				Fresh:   res.Property.Fresh(),
			}
			found = true
		}
	})
	if !found {
		// Read succeeded but the device vanished from the cache before the
		// merge landed. The caller can retry after the next refresh.
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: target.String() + " is not in the cache",
		})
		return
	}

	c.JSON(http.StatusOK, types.ReadResponse{
		Device:   req.Device,
		Object:   req.Object,
		Property: info,
	})
}

// Write handles POST /api/v1/write
// @Summary      Write property
// @Description  Dispatches a write operation and returns its initial status; the confirmation protocol keeps running in the background
// @Tags         operations
// @Accept       json
// @Produce      json
// @Param        request  body  types.WriteRequest  true  "Property write"
// @Success      202  {object}  types.WriteResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid request or value"
// @Router       /api/v1/write [post]
func (h *OperationsHandler) Write(c *gin.Context) {
	var req types.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if req.Property == bacnet.PropPresentValue && req.Object != "" {
		cat := bacnet.CategoryFromShortID(req.Object)
		if !cat.Capability().Writable {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "read_only",
				Message: string(cat) + " objects are read-only",
			})
			return
		}
		if err := h.validator.ValidateWrite(cat, req.Value); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_value",
				Message: err.Error(),
			})
			return
		}
	}

	// The confirmation flow outlives the request.
	target := bacnet.Target{Device: req.Device, Object: req.Object, Property: req.Property}
	op := h.sync.Write(context.Background(), target, req.Value)

	c.JSON(http.StatusAccepted, types.WriteResponse{
		Operation: h.sync.OperationStatus(op),
	})
}

// ListOperations handles GET /api/v1/operations
// @Summary      List operations
// @Description  Lists all outstanding write operations, oldest first
// @Tags         operations
// @Produce      json
// @Success      200  {object}  types.OperationsResponse
// @Router       /api/v1/operations [get]
func (h *OperationsHandler) ListOperations(c *gin.Context) {
	ops := h.sync.Operations()
	c.JSON(http.StatusOK, types.OperationsResponse{
		Operations: ops,
		Count:      len(ops),
	})
}
