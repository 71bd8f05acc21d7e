package controller

import (
	"net/http"

	"github.com/caterbazar/caterbazar-console/internal/app/query"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/gin-gonic/gin"
)

type VendorController struct{}

func NewVendorController() *VendorController {
	return &VendorController{}
}

type ChangePageRequest struct {
	Page int `json:"page" binding:"required"`
}

// Open installs the landing page's query string as the URL seed and runs the
// first search.
// POST /api/v1/console/vendors/open?vendorCategory=...&locality=...
func (ctrl *VendorController) Open(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	seed := query.ParseSeed(c.Request.URL.Query())
	if seed != nil {
		log.Debug("Opening vendor discovery with URL seed", map[string]interface{}{
			"category": seed.VendorCategory,
			"locality": seed.Locality,
		})
	}

	snap, err := console.Discovery.Open(c.Request.Context(), token, seed)
	if err != nil {
		log.Warn("Vendor discovery open failed", map[string]interface{}{"error": err.Error()})
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Snapshot returns the current discovery view without searching.
// GET /api/v1/console/vendors
func (ctrl *VendorController) Snapshot(c *gin.Context) {
	console, _, ok := consoleSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, console.Discovery.Snapshot())
}

// ApplyFilter replaces the filter selection and searches.
// PUT /api/v1/console/vendors/filter
func (ctrl *VendorController) ApplyFilter(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	var filter query.VendorSearchFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		log.Warn("Invalid vendor filter", map[string]interface{}{"error": err.Error()})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The filter could not be read.")
		return
	}

	snap, err := console.Discovery.ApplyFilter(c.Request.Context(), token, filter)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ChangePage searches the current filter at another page.
// PUT /api/v1/console/vendors/page
func (ctrl *VendorController) ChangePage(c *gin.Context) {
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	var req ChangePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A page number is required.")
		return
	}

	snap, err := console.Discovery.ChangePage(c.Request.Context(), token, req.Page)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Reset clears every filter and the URL seed.
// POST /api/v1/console/vendors/reset
func (ctrl *VendorController) Reset(c *gin.Context) {
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	snap, err := console.Discovery.Reset(c.Request.Context(), token)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
