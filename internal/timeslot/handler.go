package timeslot

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/api"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/auth"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// CreateTimeSlots godoc
// @Summary      Create time slots
// @Description  Bulk-generates slots for a field over an open/close window.
// @Tags         timeslots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        fieldID  path      int                     true  "Field ID"
// @Param        request  body      CreateTimeSlotsRequest  true  "Window to cover"
// @Success      201      {array}   Slot
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Router       /clubs/me/fields/{fieldID}/timeslots [post]
func (h *Handler) CreateTimeSlots(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	fieldID, err := strconv.Atoi(c.Param("fieldID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field ID"})
		return
	}

	var req CreateTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.svc.CreateForField(c.Request.Context(), clubID, fieldID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slots)
}

// ListTimeSlots godoc
// @Summary      List a field's time slots
// @Tags         timeslots
// @Security     BearerAuth
// @Produce      json
// @Param        fieldID  path      int     true   "Field ID"
// @Param        date     query     string  false  "Filter by date (YYYY-MM-DD)"
// @Param        status   query     string  false  "Filter by status"
// @Success      200      {array}   Slot
// @Router       /fields/{fieldID}/timeslots [get]
func (h *Handler) ListTimeSlots(c *gin.Context) {
	fieldID, err := strconv.Atoi(c.Param("fieldID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field ID"})
		return
	}

	slots, err := h.svc.GetFieldSlots(c.Request.Context(), fieldID, c.Query("date"), Status(c.Query("status")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// UpdateSlotStatus godoc
// @Summary      Set a slot's status
// @Description  Moves an unreserved slot to AVAILABLE or MAINTENANCE.
// @Tags         timeslots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        fieldID  path      int                      true  "Field ID"
// @Param        slotID   path      int                      true  "Slot ID"
// @Param        request  body      UpdateSlotStatusRequest  true  "New status"
// @Success      200      {object}  api.MessageResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /clubs/me/fields/{fieldID}/timeslots/{slotID}/status [patch]
func (h *Handler) UpdateSlotStatus(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	fieldID, err := strconv.Atoi(c.Param("fieldID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field ID"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	var req UpdateSlotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), clubID, fieldID, slotID, req.Status); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Slot status updated"})
}

// DeleteTimeSlot godoc
// @Summary      Delete a time slot
// @Description  Deletes a slot while it is still AVAILABLE.
// @Tags         timeslots
// @Security     BearerAuth
// @Produce      json
// @Param        fieldID  path      int  true  "Field ID"
// @Param        slotID   path      int  true  "Slot ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /clubs/me/fields/{fieldID}/timeslots/{slotID} [delete]
func (h *Handler) DeleteTimeSlot(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	fieldID, err := strconv.Atoi(c.Param("fieldID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field ID"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), clubID, fieldID, slotID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Slot deleted"})
}
