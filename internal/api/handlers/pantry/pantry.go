package pantry

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/pantry"

	"github.com/gin-gonic/gin"
)

// Handler 庫存處理器
type Handler struct {
	svc   *pantry.Service
	debug bool
}

// NewHandler 創建庫存處理器
func NewHandler(svc *pantry.Service, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/low-stock", h.LowStock)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List 列出庫存
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, items)
}

// LowStock 列出低於門檻的項目
func (h *Handler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStock(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create 新增庫存項目
func (h *Handler) Create(c *gin.Context) {
	var input pantry.CreateInput
	if !handlers.BindJSON(c, &input, h.debug) {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update 部分更新庫存項目
func (h *Handler) Update(c *gin.Context) {
	var input pantry.UpdateInput
	if !handlers.BindJSON(c, &input, h.debug) {
		return
	}

	item, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), input)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete 刪除庫存項目
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	handlers.Deleted(c, "Pantry item deleted")
}
