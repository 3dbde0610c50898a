package mealplan

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/mealplan"

	"github.com/gin-gonic/gin"
)

// Handler 餐點計畫處理器
type Handler struct {
	svc   *mealplan.Service
	debug bool
}

// NewHandler 創建餐點計畫處理器
func NewHandler(svc *mealplan.Service, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create 建立一週計畫
func (h *Handler) Create(c *gin.Context) {
	var input mealplan.CreateInput
	if !handlers.BindJSON(c, &input, h.debug) {
		return
	}

	plan, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// List 列出使用者的計畫
func (h *Handler) List(c *gin.Context) {
	plans, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// Get 取得單一計畫
func (h *Handler) Get(c *gin.Context) {
	plan, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Update 取代計畫的每日內容
func (h *Handler) Update(c *gin.Context) {
	var input mealplan.UpdateInput
	if !handlers.BindJSON(c, &input, h.debug) {
		return
	}

	plan, err := h.svc.UpdateDays(c.Request.Context(), middleware.UserID(c), c.Param("id"), input.Days)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Delete 刪除計畫及其購物清單
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	handlers.Deleted(c, "Meal plan deleted")
}
