package handlers

import (
	"errors"
	"strconv"

	"github.com/cartkeeper/internal/http/response"
	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// 对外固定错误消息
const (
	msgCartNotFound     = "Cart not found. Please create a new cart"
	msgProductNotFound  = "Product not found"
	msgProductNotInCart = "Product not found in cart"
	msgCartEmpty        = "Cart is empty"
	msgInternal         = "Internal server error"
)

// AddItemRequest 添加商品请求
// Quantity 用指针接收：0 是合法的增量输入，required 只校验字段是否出现
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"`
}

// GetCart 查看当前购物车
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.CartService.Current()
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			response.NotFound(c, msgCartNotFound)
			return
		}
		logger.Errorw("cart_get_failed", "error", err)
		response.Internal(c, msgInternal)
		return
	}
	response.OK(c, h.CartService.BuildView(cart))
}

// AddItem 解析或新建当前购物车并加入商品
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "product_id and quantity are required")
		return
	}

	cart, created, err := h.CartService.AddItem(service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.UnprocessableEntity(c, validationErr.Field, validationErr.Message)
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, msgProductNotFound)
		default:
			logger.Errorw("cart_add_item_failed", "product_id", req.ProductID, "error", err)
			response.Internal(c, msgInternal)
		}
		return
	}

	view := h.CartService.BuildView(cart)
	if created {
		response.Created(c, view)
		return
	}
	response.OK(c, view)
}

// RemoveItem 从当前购物车移除商品（整行删除）
func (h *Handler) RemoveItem(c *gin.Context) {
	// 非数字的 product_id 按 0 处理：先判断购物车是否存在，再报商品不在车内
	productID, _ := strconv.ParseUint(c.Param("product_id"), 10, 64)

	cart, err := h.CartService.RemoveItem(uint(productID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			response.NotFound(c, msgCartNotFound)
		case errors.Is(err, service.ErrProductNotInCart):
			response.NotFound(c, msgProductNotInCart)
		default:
			logger.Errorw("cart_remove_item_failed", "product_id", productID, "error", err)
			response.Internal(c, msgInternal)
		}
		return
	}

	if len(cart.Items) == 0 {
		response.Message(c, msgCartEmpty)
		return
	}
	response.OK(c, h.CartService.BuildView(cart))
}
