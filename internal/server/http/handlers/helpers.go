package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/server/http/dto"
)

// writeDomainError maps the domain error taxonomy onto HTTP responses.
// External dependency failures are reported as a neutral "try again later";
// the detail stays in server logs.
func writeDomainError(c *gin.Context, err error) {
	var validation domainErrors.ValidationError
	var invalid domainErrors.InvalidInputError
	var gateway domainErrors.GatewayError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: validation.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: invalid.Error()})
	case errors.Is(err, domainErrors.ErrInvalidOrderNumber):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid order number"})
	case errors.Is(err, domainErrors.ErrUnsupportedCurrency):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "unsupported currency code"})
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found."})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "order already exists"})
	case errors.Is(err, domainErrors.ErrPricing):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "Unable to calculate price"})
	case errors.As(err, &gateway),
		errors.Is(err, domainErrors.ErrRateFetch),
		errors.Is(err, domainErrors.ErrRateUpstream):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Something went wrong. Please try again later."})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Something went wrong. Please try again later."})
	}
}
