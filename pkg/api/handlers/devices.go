package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neatc0der/bacnet/pkg/api/types"
	"github.com/neatc0der/bacnet/pkg/bacnet"
	"github.com/neatc0der/bacnet/pkg/engine"
)

// DevicesHandler handles device browse endpoints
type DevicesHandler struct {
	sync *engine.Engine
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(sync *engine.Engine) *DevicesHandler {
	return &DevicesHandler{sync: sync}
}

// ListDevices handles GET /api/v1/devices
// @Summary      List devices
// @Description  Lists all devices in the cache, sorted by display name
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Router       /api/v1/devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	var infos []types.DeviceInfo
	h.sync.Inspect(func(s *engine.State) {
		for _, dev := range s.Devices {
			infos = append(infos, deviceInfo(dev))
		}
	})
	sort.Slice(infos, func(i, j int) bool {
		return strings.ToLower(infos[i].Name) < strings.ToLower(infos[j].Name)
	})

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: infos,
		Count:   len(infos),
	})
}

// GetDevice handles GET /api/v1/devices/:id
// @Summary      Get device
// @Description  Returns one device with its objects and top-level properties
// @Tags         devices
// @Produce      json
// @Param        id  path  string  true  "Device short id"
// @Success      200  {object}  types.DeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not in cache"
// @Router       /api/v1/devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	id := c.Param("id")

	var (
		info  types.DeviceInfo
		found bool
	)
	h.sync.Inspect(func(s *engine.State) {
		if dev, ok := s.Devices[id]; ok {
			info = deviceInfo(dev)
			found = true
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "device " + id + " is not in the cache",
		})
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{Device: info})
}

// GetObject handles GET /api/v1/devices/:id/objects/:object
// @Summary      Get object
// @Description  Returns one object of a device with its properties
// @Tags         devices
// @Produce      json
// @Param        id      path  string  true  "Device short id"
// @Param        object  path  string  true  "Object short id"
// @Success      200  {object}  types.ObjectResponse
// @Failure      404  {object}  types.ErrorResponse  "Device or object not in cache"
// @Router       /api/v1/devices/{id}/objects/{object} [get]
func (h *DevicesHandler) GetObject(c *gin.Context) {
	id := c.Param("id")
	objectID := c.Param("object")

	var (
		info  types.ObjectInfo
		found bool
	)
	h.sync.Inspect(func(s *engine.State) {
		res := s.Lookup(id, objectID, "")
		if res.Object != nil {
			info = objectInfo(res.Object)
			found = true
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "object " + objectID + " of device " + id + " is not in the cache",
		})
		return
	}

	c.JSON(http.StatusOK, types.ObjectResponse{Device: id, Object: info})
}

func deviceInfo(dev *bacnet.Device) types.DeviceInfo {
	info := types.DeviceInfo{
		ID:         dev.ID,
		Name:       dev.Name,
		Address:    dev.Address,
		IsLocal:    dev.IsLocal,
		Properties: propertyInfos(dev.Properties),
	}
	for _, obj := range dev.Objects {
		info.Objects = append(info.Objects, objectInfo(obj))
	}
	sort.Slice(info.Objects, func(i, j int) bool {
		return strings.ToLower(info.Objects[i].Name) < strings.ToLower(info.Objects[j].Name)
	})
	return info
}

func objectInfo(obj *bacnet.Object) types.ObjectInfo {
	return types.ObjectInfo{
		ID:         obj.ID,
		Name:       obj.DisplayName(),
		Category:   string(obj.Category),
		IsDevice:   obj.IsDevice,
		Properties: propertyInfos(obj.Properties),
	}
}

func propertyInfos(props map[string]*bacnet.Property) map[string]types.PropertyInfo {
	if len(props) == 0 {
		return nil
	}
	infos := make(map[string]types.PropertyInfo, len(props))
	for name, p := range props {
		infos[name] = types.PropertyInfo{
			Name:    p.Name,
			Value:   p.Value,
			Updated: p.Updated,
			Fresh:   p.Fresh(),
		}
	}
	return infos
}
