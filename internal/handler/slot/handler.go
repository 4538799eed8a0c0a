package slot

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	slotService "github.com/jwalitptl/hms-api/internal/service/slot"
)

type Handler struct {
	service *slotService.Service
}

func NewHandler(service *slotService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	slots := r.Group("/doctor/slots")
	{
		slots.POST("", h.Generate)
		slots.GET("/:doctorId", h.ListByDoctor)
		slots.PATCH("/:doctorId/:date", h.UpdateBooking)
	}
}

func (h *Handler) Generate(c *gin.Context) {
	var req model.CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "Invalid request body")
		return
	}

	day, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.Keyed(day.Key(), day))
}

// ListByDoctor returns every slot document for the doctor, keyed by
// "<doctorId>_<date>".
func (h *Handler) ListByDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		handler.BadRequest(c, "Invalid doctor ID")
		return
	}

	days, err := h.service.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	out := gin.H{}
	for _, day := range days {
		out[day.Key()] = day
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		handler.BadRequest(c, "Invalid doctor ID")
		return
	}
	date := c.Param("date")

	var req model.UpdateSlotBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "Invalid request body")
		return
	}

	day, err := h.service.UpdateBooking(c.Request.Context(), doctorID, date, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.Keyed(day.Key(), day))
}
