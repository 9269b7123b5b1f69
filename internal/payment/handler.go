package payment

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

// CreateCheckout godoc
// @Summary      Open a payment checkout for a confirmed reservation
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      201            {object}  CheckoutResponse
// @Failure      409            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID}/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	subjectID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)
	organizerType := event.OrganizerUser
	if role == auth.RoleClub {
		organizerType = event.OrganizerClub
	}

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	checkout, err := h.svc.CreateCheckout(c.Request.Context(), organizerType, subjectID, reservationID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkout)
}

// Webhook godoc
// @Summary      Payment gateway notification endpoint
// @Tags         payments
// @Produce      json
// @Param        topic  query     string  true  "Notification topic"
// @Param        id     query     string  true  "Resource id"
// @Success      200    {object}  api.MessageResponse
// @Router       /payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	topic := c.Query("topic")
	resourceID := c.Query("id")
	if topic == "" || resourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing topic or id"})
		return
	}

	if err := h.svc.ProcessWebhook(c.Request.Context(), topic, resourceID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}

// GetReservationPayment godoc
// @Summary      Get the approved payment of a reservation
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  Payment
// @Failure      404            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID}/payment [get]
func (h *Handler) GetReservationPayment(c *gin.Context) {
	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	p, err := h.svc.GetByReservation(c.Request.Context(), reservationID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
