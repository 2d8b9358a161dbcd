package controllers

import (
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/pkg/ctx"
)

// ReviewController is append-only: there is no update or delete.
type ReviewController struct {
	reviews repositories.ReviewStore
}

func NewReviewController(reviews repositories.ReviewStore) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (rc *ReviewController) Store(c *ctx.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}
	res, err := rc.reviews.Insert(c.Context(), doc)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}

func (rc *ReviewController) Index(c *ctx.Context) {
	reviews, err := rc.reviews.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(reviews)
}
