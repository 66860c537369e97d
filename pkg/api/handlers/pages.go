package handlers

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/neatc0der/bacnet/pkg/bacnet"
	"github.com/neatc0der/bacnet/pkg/bacnet/schema"
	"github.com/neatc0der/bacnet/pkg/engine"
	"github.com/neatc0der/bacnet/pkg/view"
)

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} – BACnet Console</title></head>
<body>
<nav>{{.Navigation}}</nav>
<main>
<h1>{{.Title}}</h1>
{{.Content}}
</main>
</body>
</html>
`))

// PagesHandler serves the rendered browse pages and the form actions that
// drive the synchronization engine.
type PagesHandler struct {
	sync      *engine.Engine
	renderer  *view.Renderer
	validator *schema.Validator
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(sync *engine.Engine, renderer *view.Renderer, validator *schema.Validator) *PagesHandler {
	return &PagesHandler{sync: sync, renderer: renderer, validator: validator}
}

// Browse handles GET /. The query parameters device, object and property
// fully determine the displayed view.
func (h *PagesHandler) Browse(c *gin.Context) {
	sel := view.ParseSelector(c.Request.URL.Query())

	var page view.Page
	h.sync.Inspect(func(s *engine.State) {
		page = h.renderer.Render(s.Devices, s.Controls, sel)
	})

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := layoutTmpl.Execute(c.Writer, page); err != nil {
		log.Error().Err(err).Msg("Failed to write page")
	}
}

// Write handles POST /devices/write: dispatch a write operation for the
// form target and return to the originating view. The operation keeps
// converging in the background; re-loading the view shows its progress.
func (h *PagesHandler) Write(c *gin.Context) {
	target := formTarget(c)
	value := c.PostForm("value")

	if target.Device == "" || target.Property == "" || value == "" {
		c.String(http.StatusBadRequest, "device, property and value are required")
		return
	}

	if target.Property == bacnet.PropPresentValue && target.Object != "" {
		cat := bacnet.CategoryFromShortID(target.Object)
		if !cat.Capability().Writable {
			c.String(http.StatusBadRequest, "%s objects are read-only", cat)
			return
		}
		if err := h.validator.ValidateWrite(cat, value); err != nil {
			c.String(http.StatusBadRequest, "invalid value: %s", err)
			return
		}
	}

	// The confirmation flow outlives the request.
	h.sync.Write(context.Background(), target, value)
	c.Redirect(http.StatusSeeOther, backURL(target))
}

// Update handles POST /devices/update: run one refresh read for the form
// target before returning to the originating view. A transport failure is
// reflected by the control's error affordance, not by the response code.
func (h *PagesHandler) Update(c *gin.Context) {
	target := formTarget(c)
	if target.Device == "" || target.Property == "" {
		c.String(http.StatusBadRequest, "device and property are required")
		return
	}

	if err := h.sync.RefreshProperty(c.Request.Context(), target); err != nil {
		log.Warn().Err(err).Stringer("target", target).Msg("Property refresh failed")
	}
	c.Redirect(http.StatusSeeOther, backURL(target))
}

func formTarget(c *gin.Context) bacnet.Target {
	return bacnet.Target{
		Device:   c.PostForm("device"),
		Object:   c.PostForm("object"),
		Property: c.PostForm("property"),
	}
}

func backURL(t bacnet.Target) string {
	return view.Selector{Device: t.Device, Object: t.Object}.URL()
}
