package reservation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/api"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/auth"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/event"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func organizerFromRole(role string) event.OrganizerType {
	if role == auth.RoleClub {
		return event.OrganizerClub
	}
	return event.OrganizerUser
}

// FindAvailableFields godoc
// @Summary      List nearby bookable fields for an event
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        eventID    path      int     true   "Event ID"
// @Param        radius_km  query     number  false  "Search radius in km"
// @Success      200        {array}   AvailableField
// @Failure      403        {object}  api.ErrorResponse
// @Router       /events/{eventID}/available-fields [get]
func (h *Handler) FindAvailableFields(c *gin.Context) {
	subjectID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var radiusKm float64
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius_km"})
			return
		}
	}

	fields, err := h.svc.FindAvailableFields(c.Request.Context(), eventID, organizerFromRole(role), subjectID, radiusKm)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fields)
}

// CreateReservation godoc
// @Summary      Reserve consecutive slots for an event
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReservationRequest  true  "Slots to claim"
// @Success      201      {object}  Reservation
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	subjectID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), organizerFromRole(role), subjectID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// GetReservation godoc
// @Summary      Get a reservation with its slots
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  Detail
// @Failure      403            {object}  api.ErrorResponse
// @Failure      404            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID} [get]
func (h *Handler) GetReservation(c *gin.Context) {
	subjectID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	detail, err := h.svc.GetDetailFor(c.Request.Context(), reservationID, organizerFromRole(role), subjectID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListEventReservations godoc
// @Summary      List reservations of an event the requester owns
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   Reservation
// @Failure      403      {object}  api.ErrorResponse
// @Router       /events/{eventID}/reservations [get]
func (h *Handler) ListEventReservations(c *gin.Context) {
	subjectID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	reservations, err := h.svc.GetByEvent(c.Request.Context(), eventID, organizerFromRole(role), subjectID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ListClubReservations godoc
// @Summary      List reservations on the authenticated club's fields
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Reservation
// @Router       /reservations [get]
func (h *Handler) ListClubReservations(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	reservations, err := h.svc.GetByClub(c.Request.Context(), clubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ConfirmReservation godoc
// @Summary      Confirm a pending reservation
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  Reservation
// @Failure      403            {object}  api.ErrorResponse
// @Failure      409            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID}/confirm [post]
func (h *Handler) ConfirmReservation(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	res, err := h.svc.Confirm(c.Request.Context(), clubID, reservationID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// CancelReservation godoc
// @Summary      Cancel a reservation
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  api.MessageResponse
// @Failure      403            {object}  api.ErrorResponse
// @Failure      409            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID} [delete]
func (h *Handler) CancelReservation(c *gin.Context) {
	subjectID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	initiator := InitiatorUser
	if role == auth.RoleClub {
		initiator = InitiatorClub
	}

	if err := h.svc.Cancel(c.Request.Context(), reservationID, initiator, subjectID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Reservation cancelled"})
}
