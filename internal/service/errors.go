package service

import "errors"

// 购物车业务错误
var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrCartUpdateFailed = errors.New("cart update failed")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// ErrQuantityTooLow 数量校验错误：购物车项数量不得低于 1
var ErrQuantityTooLow = &ValidationError{
	Field:   "quantity",
	Message: "must be greater than or equal to 1",
}
