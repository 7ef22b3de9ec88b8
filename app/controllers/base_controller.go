package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/beego/beego/v2/server/web"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
)

var validate = validator.New()

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	c.ServeJSON()
}

// JSONSuccess writes a standard success envelope.
func (c *BaseController) JSONSuccess(data interface{}) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// JSONAppError 将应用错误映射为HTTP响应
func (c *BaseController) JSONAppError(err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.Error("请求处理失败",
			zap.String("path", c.Ctx.Request.RequestURI),
			zap.Error(err))
	}
	c.JSON(appErr.HTTPCode, map[string]interface{}{
		"success": false,
		"code":    appErr.Code,
		"error":   appErr.Message,
	})
}

// getAuthenticatedUserID 获取认证用户ID
// 简化实现：从Authorization header或X-User-Id header取用户ID，
// 生产部署中由网关完成token校验后注入。
func (c *BaseController) getAuthenticatedUserID() (uint, bool) {
	authHeader := c.Ctx.Input.Header("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if userID, err := strconv.ParseUint(parts[1], 10, 32); err == nil {
				return uint(userID), true
			}
		}
	}

	userIDHeader := c.Ctx.Input.Header("X-User-Id")
	if userIDHeader != "" {
		if userID, err := strconv.ParseUint(userIDHeader, 10, 32); err == nil {
			return uint(userID), true
		}
	}

	c.JSONError(http.StatusUnauthorized, "缺少用户身份")
	return 0, false
}

// mustParseUintParam 解析路径参数，失败时直接返回400
func (c *BaseController) mustParseUintParam(name string) (uint, bool) {
	raw := c.Ctx.Input.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSONError(http.StatusBadRequest, "无效的路径参数: "+name)
		return 0, false
	}
	return uint(value), true
}

// bindJSON 反序列化并校验请求体
func (c *BaseController) bindJSON(target interface{}) bool {
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, target); err != nil {
		c.JSONError(http.StatusBadRequest, "请求参数错误")
		return false
	}
	if err := validate.Struct(target); err != nil {
		c.JSONError(http.StatusBadRequest, "请求参数校验失败: "+err.Error())
		return false
	}
	return true
}

// intQuery 解析查询参数，缺省或非法时返回默认值
func (c *BaseController) intQuery(name string, fallback int) int {
	raw := c.GetString(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
