package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"

	"ghgdeck/internal/core/domain"
)

// DashboardHandler returns the full composed dashboard spec: manifest,
// ordered layers, initial view state, and the viewport profile.
func DashboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Dashboard.Snapshot()
		if snap == nil {
			return errNotLoaded(c, deps)
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{
			"manifest":           snap.Manifest,
			"layers":             snap.Layers,
			"initial_view_state": snap.InitialViewState,
			"viewport_profile":   deps.Viewport.Profile(),
			"loaded_at":          snap.LoadedAt,
		})
	}
}

// LayersHandler returns only the ordered layer descriptors.
func LayersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Dashboard.Snapshot()
		if snap == nil {
			return errNotLoaded(c, deps)
		}
		return c.JSON(snap.Layers)
	}
}

// ManifestHandler returns the validated manifest as loaded.
func ManifestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Dashboard.Snapshot()
		if snap == nil {
			return errNotLoaded(c, deps)
		}
		return c.JSON(snap.Manifest)
	}
}

// ClampViewportHandler bounds a proposed view state to the padded
// manifest bounds and zoom range. Pure; always returns a view state.
func ClampViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var view domain.ViewState
		if err := c.BodyParser(&view); err != nil {
			return errBadRequest(c, "invalid view state: "+err.Error())
		}

		snap := deps.Dashboard.Snapshot()
		if snap == nil {
			return errNotLoaded(c, deps)
		}

		return c.JSON(deps.Viewport.Clamp(view, *snap.Manifest.Bounds))
	}
}

type tooltipRequest struct {
	LayerID string `json:"layer_id"`
	Object  *struct {
		Properties geojson.Properties `json:"properties"`
	} `json:"object"`
}

// TooltipHandler resolves a pick event to tooltip content. 204 when
// nothing is picked.
func TooltipHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tooltipRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid pick event: "+err.Error())
		}

		if req.Object == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}

		content := deps.Tooltips.Resolve(req.LayerID, req.Object.Properties)
		if content == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(content)
	}
}

// ReloadHandler runs a fresh load cycle. This is the only recovery
// path after a failure; nothing is retried automatically.
func ReloadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := deps.Dashboard.Reload(c.Context())
		if err != nil {
			return errLoadCycle(c, err)
		}
		return c.JSON(fiber.Map{
			"layers":     len(snap.Layers),
			"facilities": snap.Facilities,
			"loaded_at":  snap.LoadedAt,
		})
	}
}

// errNotLoaded reports that no load cycle has succeeded yet, carrying
// the last failure's description when there is one.
func errNotLoaded(c *fiber.Ctx, deps *Dependencies) error {
	msg := "dashboard not loaded"
	if err := deps.Dashboard.LastError(); err != nil {
		msg = err.Error()
	}
	return errorSurface(c, fiber.StatusServiceUnavailable, msg)
}
