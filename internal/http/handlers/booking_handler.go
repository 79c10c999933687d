// Booking HTTP handlers.
//
// This file exposes the booking endpoints:
//   - POST /auth/prenotazione                          (direct booking)
//   - POST /prenotazioni/confirm-booking               (booking with price and guest details)
//   - GET  /prenotazioni/get-bookings                  (list, ETag support)
//   - GET  /prenotazioni/{id}                          (full row)
//   - GET  /prenotazioni/get-occupied-dates            (ISO dates)
//   - GET  /prenotazioni/get-occupied-dates/localized  (dates in the caller's locale)
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/calendar"
	"github.com/tbourn/go-booking-backend/internal/domain"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/services"
)

// ListBookingsResponse documents the curated rows of GET /prenotazioni/get-bookings.
type ListBookingsResponse []domain.BookingSummary

// CreateDirectBooking godoc
// @ID          createDirectBooking
// @Summary     Book a house
// @Description Stores a booking for a house and emails a confirmation to the guest.
// @Description A failed email still returns 201, with notification_sent=false.
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Param       body  body      services.DirectBookingInput  true  "Booking request"
// @Success     201   {object}  handlers.MessageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing or invalid field"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/prenotazione [post]
func (h *Handlers) CreateDirectBooking(c *gin.Context) {
	var in services.DirectBookingInput
	if !bindJSON(c, &in) {
		return
	}
	res := h.bookingSvc.CreateDirect(c.Request.Context(), in)
	respondBooking(c, res, http.StatusCreated, "Prenotazione creata con successo!")
}

// ConfirmBooking godoc
// @ID          confirmBooking
// @Summary     Store a priced booking
// @Description Stores a booking with party size, total price and guest address.
// @Description totalPrice must be numeric (a JSON number or a numeric string).
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Param       body  body      services.PaidBookingInput  true  "Booking details"
// @Success     201   {object}  handlers.MessageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing field or non-numeric totalPrice"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prenotazioni/confirm-booking [post]
func (h *Handlers) ConfirmBooking(c *gin.Context) {
	var in services.PaidBookingInput
	if !bindJSON(c, &in) {
		return
	}
	res := h.bookingSvc.Confirm(c.Request.Context(), in)
	respondBooking(c, res, http.StatusCreated, "Prenotazione confermata con successo!")
}

// GetBooking godoc
// @ID          getBooking
// @Summary     Get a booking
// @Tags        Bookings
// @Produce     json
// @Param       id   path      int  true  "Booking ID"  minimum(1)
// @Success     200  {object}  domain.Booking
// @Failure     400  {object}  handlers.ErrorResponse  "Non-numeric id"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prenotazioni/{id} [get]
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id prenotazione non valido")
		return
	}
	b, err := h.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFor(c, err, ErrCodeInternal, "errore durante il recupero della prenotazione")
		return
	}
	ok(c, http.StatusOK, b)
}

// ListBookings godoc
// @ID          listBookings
// @Summary     List bookings
// @Description Returns the curated columns of every booking. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Bookings
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"bookings:3:1718000000\")
// @Success     200  {object}  handlers.ListBookingsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prenotazioni/get-bookings [get]
func (h *Handlers) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.bookingSvc.(*services.BookingService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.BookingsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"bookings:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.bookingSvc.List(ctx)
	if err != nil {
		failFor(c, err, ErrCodeListFailed, "errore durante il recupero delle prenotazioni")
		return
	}
	if items == nil {
		items = []domain.BookingSummary{}
	}
	ok(c, http.StatusOK, items)
}

// OccupiedDates godoc
// @ID          occupiedDates
// @Summary     Occupied dates
// @Description Every night covered by a booking, sorted and de-duplicated. The checkout day is free.
// @Tags        Availability
// @Produce     json
// @Success     200  {array}   string  "YYYY-MM-DD"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prenotazioni/get-occupied-dates [get]
func (h *Handlers) OccupiedDates(c *gin.Context) {
	h.occupied(c, calendar.ISOLayout)
}

// OccupiedDatesLocalized godoc
// @ID          occupiedDatesLocalized
// @Summary     Occupied dates, localized
// @Description Same dates as get-occupied-dates, formatted for a BCP-47 locale (it → DD/MM/YYYY).
// @Tags        Availability
// @Produce     json
// @Param       locale  query     string  false  "BCP-47 locale"  default(it)
// @Success     200     {array}   string
// @Failure     500     {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prenotazioni/get-occupied-dates/localized [get]
func (h *Handlers) OccupiedDatesLocalized(c *gin.Context) {
	h.occupied(c, calendar.Layout(c.DefaultQuery("locale", "it")))
}

func (h *Handlers) occupied(c *gin.Context, layout string) {
	dates, err := h.bookingSvc.OccupiedDates(c.Request.Context())
	if err != nil {
		failFor(c, err, ErrCodeListFailed, "errore durante il recupero delle date occupate")
		return
	}
	ok(c, http.StatusOK, calendar.FormatAll(dates, layout))
}
