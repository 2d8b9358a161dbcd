package controllers

import (
	"github.com/jantrick/jantrick/app/services"
	"github.com/jantrick/jantrick/pkg/ctx"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

type intentInput struct {
	TotalPrice any `json:"totalPrice" validate:"required"`
}

type confirmInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

// CreateIntent handles POST /create-payment-intent.
func (p *PaymentController) CreateIntent(c *ctx.Context) {
	var in intentInput
	if !c.BindJSON(&in) {
		return
	}

	secret, err := p.payments.CreateIntent(c.Context(), in.TotalPrice)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(map[string]string{"clientSecret": secret})
}

// Confirm handles PATCH /paymentOrder/{id} and echoes the applied update.
func (p *PaymentController) Confirm(c *ctx.Context) {
	var in confirmInput
	if !c.BindJSON(&in) {
		return
	}

	update, err := p.payments.ConfirmPayment(c.Context(), c.Param("id"), in.TransactionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(update)
}
