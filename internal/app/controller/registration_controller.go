package controller

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/caterbazar/caterbazar-console/internal/app/review"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/export"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RegistrationController struct {
	now func() time.Time
}

func NewRegistrationController() *RegistrationController {
	return &RegistrationController{now: time.Now}
}

// ReviewRequest is the body of a review submission. The registration comes from
// the path.
type ReviewRequest struct {
	Status          review.Action `json:"status" binding:"required"`
	RejectionReason string        `json:"rejectionReason"`
	AdminNotes      string        `json:"adminNotes"`
}

// List loads a page of the registration queue with its status counters.
// GET /api/v1/console/registrations?status=pending&search=...&page=1&limit=20
func (ctrl *RegistrationController) List(c *gin.Context) {
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	var q caterbazar.RegistrationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The list query could not be read.")
		return
	}

	snap, err := console.Review.Load(c.Request.Context(), token, q)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Detail returns one registration with the review actions on offer.
// GET /api/v1/console/registrations/:id
func (ctrl *RegistrationController) Detail(c *gin.Context) {
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	id, ok := registrationID(c)
	if !ok {
		return
	}

	detail, err := console.Review.Detail(c.Request.Context(), token, id)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Review submits an approve, reject or resubmission decision.
// PUT /api/v1/console/registrations/:id/review
func (ctrl *RegistrationController) Review(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	id, ok := registrationID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A review decision is required.")
		return
	}

	result, err := console.Review.Submit(c.Request.Context(), token, review.Decision{
		RegistrationID:  id,
		Action:          req.Status,
		RejectionReason: req.RejectionReason,
		AdminNotes:      req.AdminNotes,
	})
	if err != nil {
		log.Warn("Review submission failed", map[string]interface{}{
			"registration_id": id,
			"action":          req.Status,
			"error":           err.Error(),
		})
		apperrors.RespondWithAppError(c, err)
		return
	}

	log.Info("Registration reviewed", map[string]interface{}{
		"registration_id": id,
		"action":          req.Status,
		"refreshed":       result.Refreshed,
	})
	c.JSON(http.StatusOK, result)
}

// Edit updates a registration's editable fields.
// PUT /api/v1/console/registrations/:id
func (ctrl *RegistrationController) Edit(c *gin.Context) {
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	id, ok := registrationID(c)
	if !ok {
		return
	}

	var edit review.RegistrationEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The registration could not be read.")
		return
	}

	reg, err := console.Review.Edit(c.Request.Context(), token, id, edit)
	if err != nil {
		apperrors.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registration": reg})
}

// Export streams the whole queue as an xlsx workbook.
// GET /api/v1/console/registrations/export
func (ctrl *RegistrationController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	console, token, ok := consoleSession(c)
	if !ok {
		return
	}

	// Buffered so a failed collection can still produce a JSON error.
	var buf bytes.Buffer
	if err := console.Review.Export(c.Request.Context(), token, &buf); err != nil {
		log.Error("Registration export failed", err)
		apperrors.RespondWithAppError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(ctrl.now())+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func registrationID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Registration id is required.")
		return "", false
	}
	return id, true
}
