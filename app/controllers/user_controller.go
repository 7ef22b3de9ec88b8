package controllers

import (
	"github.com/ahang1598/ai-interview-assistant/app/bootstrap"
	"github.com/ahang1598/ai-interview-assistant/internal/services"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest 用户凭证校验请求
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserController 用户注册与档案控制器
// 令牌签发在网关完成，这里只管理用户档案和凭证校验。
type UserController struct {
	BaseController
}

func (c *UserController) service() *services.UserService {
	return bootstrap.GetApp().UserService()
}

// Register 用户注册
func (c *UserController) Register() {
	var req RegisterRequest
	if !c.bindJSON(&req) {
		return
	}

	user, err := c.service().Register(c.Ctx.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(user)
}

// Login 校验凭证并返回用户档案
func (c *UserController) Login() {
	var req LoginRequest
	if !c.bindJSON(&req) {
		return
	}

	user, err := c.service().Authenticate(c.Ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(user)
}

// Me 获取当前用户档案
func (c *UserController) Me() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	user, err := c.service().Profile(c.Ctx.Request.Context(), userID)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(user)
}
