package shopping

import (
	"net/http"
	"strconv"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 購物清單處理器
type Handler struct {
	svc                   *shopping.Service
	subtractPantryDefault bool
	debug                 bool
}

// NewHandler 創建購物清單處理器
func NewHandler(svc *shopping.Service, subtractPantryDefault, debug bool) *Handler {
	return &Handler{
		svc:                   svc,
		subtractPantryDefault: subtractPantryDefault,
		debug:                 debug,
	}
}

// Register 註冊路由
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Generate)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/items/:index", h.SetChecked)
	rg.DELETE("/:id", h.Delete)
}

// checkRequest 勾選狀態的請求體
type checkRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

// Generate 由餐點計畫產生購物清單
func (h *Handler) Generate(c *gin.Context) {
	planID := c.Query("meal_plan_id")
	if planID == "" {
		handlers.RespondError(c, common.NewValidationError("meal_plan_id is required"), h.debug)
		return
	}

	subtract := h.subtractPantryDefault
	if raw, ok := c.GetQuery("subtract_pantry"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondError(c, common.NewValidationError("subtract_pantry must be true or false"), h.debug)
			return
		}
		subtract = v
	}

	list, err := h.svc.Generate(c.Request.Context(), middleware.UserID(c), planID, subtract)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// List 列出購物清單，最新的在前
func (h *Handler) List(c *gin.Context) {
	lists, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// Get 取得單一購物清單
func (h *Handler) Get(c *gin.Context) {
	list, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SetChecked 切換單一項目的勾選狀態
func (h *Handler) SetChecked(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		handlers.RespondError(c, common.ErrInvalidItemIndex.Wrap(err), h.debug)
		return
	}

	var req checkRequest
	if !handlers.BindJSON(c, &req, h.debug) {
		return
	}

	list, err := h.svc.SetChecked(c.Request.Context(), middleware.UserID(c), c.Param("id"), index, *req.Checked)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Delete 刪除購物清單
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	handlers.Deleted(c, "Shopping list deleted")
}
