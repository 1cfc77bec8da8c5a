package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/catering-app/middlewares"
	"github.com/yeremiapane/catering-app/services"
	"github.com/yeremiapane/catering-app/utils"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

// GetMyBookings -> bookings of the caller, menus resolved
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	bookings, err := bc.Bookings.ListBookingsForUser(c.Request.Context(), middlewares.CurrentIdentity(c), utils.GetPagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// CreateBooking -> booking + order, 200 when the Idempotency-Key was seen before
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := bc.Bookings.CreateBooking(c.Request.Context(), middlewares.CurrentIdentity(c), req, middlewares.CurrentIdempotencyKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if res.Replayed {
		utils.RespondJSON(c, http.StatusOK, "Booking already submitted", res)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Booking created", res)
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Bookings.GetBooking(c.Request.Context(), middlewares.CurrentIdentity(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBookingStatus -> {status}; owners may only cancel
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Bookings.UpdateBookingStatus(c.Request.Context(), middlewares.CurrentIdentity(c), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

func (bc *BookingController) GetBookingInvoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Bookings.GetBooking(c.Request.Context(), middlewares.CurrentIdentity(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderInvoice(&buf, booking); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="booking-%d.pdf"`, booking.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ListAllBookings -> admin/staff view, ?status=
func (bc *BookingController) ListAllBookings(c *gin.Context) {
	bookings, err := bc.Bookings.ListAllBookings(c.Request.Context(), services.BookingFilter{Status: c.Query("status")}, utils.GetPagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}
