package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
	"github.com/coffeecarriers/coffee-carriers/internal/blog"
	"github.com/coffeecarriers/coffee-carriers/internal/catalog"
	"github.com/coffeecarriers/coffee-carriers/internal/maker"
	"github.com/coffeecarriers/coffee-carriers/internal/order"
	"github.com/coffeecarriers/coffee-carriers/internal/review"
	"github.com/coffeecarriers/coffee-carriers/internal/sipper"
	"github.com/coffeecarriers/coffee-carriers/internal/user"
)

// HTTPError is the JSON error body; upstream store messages pass through
// verbatim.
// swagger:model
type HTTPError struct {
	Error string `json:"error"`
}

// WriteError maps domain sentinel errors onto HTTP status codes. Anything
// unrecognized is an upstream failure and surfaces as 500 with the message
// intact.
func WriteError(c *gin.Context, err error) {
	c.JSON(statusFor(err), HTTPError{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrBadCredentials), errors.Is(err, auth.ErrInactiveAccount):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, order.ErrValidation),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, catalog.ErrValidation),
		errors.Is(err, review.ErrValidation),
		errors.Is(err, blog.ErrValidation),
		errors.Is(err, user.ErrNoFields):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrProductsNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, blog.ErrNotFound),
		errors.Is(err, maker.ErrNotFound),
		errors.Is(err, sipper.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrStaleStatus),
		errors.Is(err, user.ErrAlreadyExist):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
