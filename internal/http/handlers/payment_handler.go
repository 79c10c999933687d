// Payment HTTP handlers.
//
//   - POST /prenotazioni/create-payment-intent  (amount only; currency from config)
//   - POST /pagamenti/create-payment-intent     (amount, currency, email and booking details required)
//   - POST /pagamenti/confirm-payment           (verify the intent, then store the booking)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booking-backend/internal/payments"
	"github.com/tbourn/go-booking-backend/internal/services"
)

// ClientSecretResponse carries the secret the browser needs to finish the payment.
type ClientSecretResponse struct {
	ClientSecret string `json:"clientSecret" example:"pi_3Nk_secret_abc"`
}

// CreatePaymentIntent godoc
// @ID          createPaymentIntent
// @Summary     Open a payment intent
// @Description Creates a card payment intent for amount (minor units) and returns its client secret.
// @Description The amount is taken as sent and is not recomputed from the stay.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body  body      services.IntentInput  true  "Intent request"
// @Success     200   {object}  handlers.ClientSecretResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid amount"
// @Failure     500   {object}  handlers.ErrorResponse  "Payment provider error"
// @Router      /prenotazioni/create-payment-intent [post]
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var in services.IntentInput
	if !bindJSON(c, &in) {
		return
	}
	intent, err := h.paymentSvc.CreateIntent(c.Request.Context(), in)
	h.respondIntent(c, intent, err)
}

// CreateCheckoutIntent godoc
// @ID          createCheckoutIntent
// @Summary     Open a checkout payment intent
// @Description Like /prenotazioni/create-payment-intent, but currency, email_utente and bookingDetails are required.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body  body      services.CheckoutIntentInput  true  "Intent request"
// @Success     200   {object}  handlers.ClientSecretResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing fields"
// @Failure     500   {object}  handlers.ErrorResponse  "Payment provider error"
// @Router      /pagamenti/create-payment-intent [post]
func (h *Handlers) CreateCheckoutIntent(c *gin.Context) {
	var in services.CheckoutIntentInput
	if !bindJSON(c, &in) {
		return
	}
	intent, err := h.paymentSvc.CreateCheckoutIntent(c.Request.Context(), in)
	h.respondIntent(c, intent, err)
}

func (h *Handlers) respondIntent(c *gin.Context, intent payments.Intent, err error) {
	if err != nil {
		failFor(c, err, ErrCodePaymentFailed, "errore durante la creazione del pagamento")
		return
	}
	ok(c, http.StatusOK, ClientSecretResponse{ClientSecret: intent.ClientSecret})
}

// ConfirmPayment godoc
// @ID          confirmPayment
// @Summary     Confirm a payment and book
// @Description Re-reads the payment intent from the provider. Only a "succeeded" intent
// @Description stores the booking; a payment confirmation and a booking confirmation email follow.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body  body      services.PaymentConfirmation  true  "Payment confirmation"
// @Success     200   {object}  handlers.MessageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing field or payment not succeeded"
// @Failure     500   {object}  handlers.ErrorResponse  "Provider or database error"
// @Router      /pagamenti/confirm-payment [post]
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	var in services.PaymentConfirmation
	if !bindJSON(c, &in) {
		return
	}
	res := h.paymentSvc.ConfirmPayment(c.Request.Context(), in)
	if res.Outcome == services.ServerError {
		failFor(c, res.Err, ErrCodePaymentFailed, "errore durante la verifica del pagamento")
		return
	}
	respondBooking(c, res, http.StatusOK, "Pagamento confermato e prenotazione creata con successo!")
}
