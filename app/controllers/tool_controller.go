package controllers

import (
	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/pkg/ctx"
)

type ToolController struct {
	tools repositories.ToolStore
}

func NewToolController(tools repositories.ToolStore) *ToolController {
	return &ToolController{tools: tools}
}

func (t *ToolController) Store(c *ctx.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}
	res, err := t.tools.Insert(c.Context(), doc)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}

func (t *ToolController) Index(c *ctx.Context) {
	tools, err := t.tools.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(tools)
}

func (t *ToolController) Show(c *ctx.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	tool, err := t.tools.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(documentOrNull(tool))
}

func (t *ToolController) Destroy(c *ctx.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := t.tools.DeleteByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}
