// Discount code HTTP handlers (code-keyed CRUD under /sconto).
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/services"
)

// CreateDiscount godoc
// @ID          createDiscount
// @Summary     Create a discount code
// @Tags        Discounts
// @Accept      json
// @Produce     json
// @Param       body  body      services.DiscountInput  true  "Discount code"
// @Success     201   {object}  services.DiscountView
// @Failure     400   {object}  handlers.ErrorResponse  "Missing field or percentage outside (0,100]"
// @Failure     409   {object}  handlers.ErrorResponse  "Code already exists"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sconto/crea [post]
func (h *Handlers) CreateDiscount(c *gin.Context) {
	var in services.DiscountInput
	if !bindJSON(c, &in) {
		return
	}
	v, err := h.discountSvc.Create(c.Request.Context(), in)
	if err != nil {
		failFor(c, err, ErrCodeCreateFailed, "errore durante la creazione del codice sconto")
		return
	}
	ok(c, http.StatusCreated, v)
}

// ListDiscounts godoc
// @ID          listDiscounts
// @Summary     List discount codes
// @Description Every code, including expired ones (flagged by scaduto).
// @Tags        Discounts
// @Produce     json
// @Success     200  {array}   services.DiscountView
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sconto [get]
func (h *Handlers) ListDiscounts(c *gin.Context) {
	items, err := h.discountSvc.List(c.Request.Context())
	if err != nil {
		failFor(c, err, ErrCodeListFailed, "errore durante il recupero dei codici sconto")
		return
	}
	if items == nil {
		items = []services.DiscountView{}
	}
	ok(c, http.StatusOK, items)
}

// GetDiscount godoc
// @ID          getDiscount
// @Summary     Get a discount code
// @Tags        Discounts
// @Produce     json
// @Param       codice  path      string  true  "Discount code"  example(ESTATE25)
// @Success     200     {object}  services.DiscountView
// @Failure     404     {object}  handlers.ErrorResponse  "Code not found"
// @Failure     500     {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sconto/{codice} [get]
func (h *Handlers) GetDiscount(c *gin.Context) {
	v, err := h.discountSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("codice")))
	if err != nil {
		failFor(c, err, ErrCodeInternal, "errore durante il recupero del codice sconto")
		return
	}
	ok(c, http.StatusOK, v)
}

// UpdateDiscount godoc
// @ID          updateDiscount
// @Summary     Update a discount code
// @Tags        Discounts
// @Accept      json
// @Produce     json
// @Param       codice  path      string                   true  "Discount code"  example(ESTATE25)
// @Param       body    body      services.DiscountUpdate  true  "New percentage and expiry"
// @Success     200     {object}  handlers.MessageResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Missing or invalid field"
// @Failure     404     {object}  handlers.ErrorResponse  "Code not found"
// @Failure     500     {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sconto/{codice} [put]
func (h *Handlers) UpdateDiscount(c *gin.Context) {
	var in services.DiscountUpdate
	if !bindJSON(c, &in) {
		return
	}
	if err := h.discountSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("codice")), in); err != nil {
		failFor(c, err, ErrCodeUpdateFailed, "errore durante l'aggiornamento del codice sconto")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Codice sconto aggiornato con successo!"})
}

// DeleteDiscount godoc
// @ID          deleteDiscount
// @Summary     Delete a discount code
// @Tags        Discounts
// @Produce     json
// @Param       codice  path      string  true  "Discount code"  example(ESTATE25)
// @Success     200     {object}  handlers.MessageResponse
// @Failure     404     {object}  handlers.ErrorResponse  "Code not found"
// @Failure     500     {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sconto/{codice} [delete]
func (h *Handlers) DeleteDiscount(c *gin.Context) {
	if err := h.discountSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("codice"))); err != nil {
		failFor(c, err, ErrCodeDeleteFailed, "errore durante l'eliminazione del codice sconto")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Codice sconto eliminato con successo!"})
}
