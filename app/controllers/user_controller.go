package controllers

import (
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/app/services"
	"github.com/jantrick/jantrick/pkg/ctx"
)

type UserController struct {
	auth  *services.AuthService
	users repositories.UserStore
}

func NewUserController(auth *services.AuthService, users repositories.UserStore) *UserController {
	return &UserController{auth: auth, users: users}
}

// Login handles PUT /user/{email}: upsert the profile, return a new token.
func (u *UserController) Login(c *ctx.Context) {
	profile, ok := bindDocument(c)
	if !ok {
		return
	}

	res, err := u.auth.Login(c.Context(), c.Param("email"), profile)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}

// Index handles GET /user.
func (u *UserController) Index(c *ctx.Context) {
	users, err := u.users.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(users)
}

// Destroy handles DELETE /user/{email}. Orders and reviews are left alone.
func (u *UserController) Destroy(c *ctx.Context) {
	res, err := u.users.DeleteByEmail(c.Context(), c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}

// MakeAdmin handles PUT /user/admin/{email}.
func (u *UserController) MakeAdmin(c *ctx.Context) {
	requester, _ := c.Identity()
	res, err := u.auth.PromoteToAdmin(c.Context(), requester, c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(res)
}

// CheckAdmin handles GET /admin/{email}.
func (u *UserController) CheckAdmin(c *ctx.Context) {
	admin, err := u.auth.IsAdmin(c.Context(), c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(map[string]bool{"admin": admin})
}
