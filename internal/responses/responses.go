package responses

import (
	"net/http"

	"storefront/internal/structs"
)

const (
	UnauthorizedCode = http.StatusUnauthorized
)

var (
	Success = structs.Response{
		Success: true,
		Code:    http.StatusOK,
		Message: "success",
	}
	BadRequest = structs.Response{
		Code:  http.StatusBadRequest,
		Error: "bad request",
	}
	ValidationFailed = structs.Response{
		Code:  http.StatusUnprocessableEntity,
		Error: "validation failed",
	}
	NotFound = structs.Response{
		Code:  http.StatusNotFound,
		Error: "not found",
	}
	Unauthorized = structs.Response{
		Code:  UnauthorizedCode,
		Error: "unauthorized",
	}
	EmptyCart = structs.Response{
		Code:  http.StatusConflict,
		Error: "your cart is empty",
	}
	CartTooLarge = structs.Response{
		Code:  http.StatusRequestEntityTooLarge,
		Error: "cart is full",
	}
	CheckoutFailed = structs.Response{
		Code:  http.StatusBadGateway,
		Error: "failed to create checkout session",
	}
	InternalErr = structs.Response{
		Code:  http.StatusInternalServerError,
		Error: "internal error",
	}
	ServiceUnavailable = structs.Response{
		Code:  http.StatusServiceUnavailable,
		Error: "service unavailable",
	}
)
