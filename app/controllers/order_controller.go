package controllers

import (
	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/pkg/ctx"
)

type OrderController struct {
	orders repositories.OrderStore
}

func NewOrderController(orders repositories.OrderStore) *OrderController {
	return &OrderController{orders: orders}
}

func (o *OrderController) Store(c *ctx.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}
	res, err := o.orders.Insert(c.Context(), doc)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}

func (o *OrderController) Index(c *ctx.Context) {
	orders, err := o.orders.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(orders)
}

// ByEmail handles GET /orders/{email}.
func (o *OrderController) ByEmail(c *ctx.Context) {
	orders, err := o.orders.FindByEmail(c.Context(), c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(orders)
}

// Show handles GET /myOrders/{id}.
func (o *OrderController) Show(c *ctx.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	order, err := o.orders.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(documentOrNull(order))
}

func (o *OrderController) Destroy(c *ctx.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := o.orders.DeleteByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}
