package handler

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError writes the taxonomy-mapped response for a service error.
// Retryable conflicts carry a Retry-After hint so POS clients can back off
// instead of hammering a held row lock.
func respondError(c *gin.Context, err error) {
	status, body := apierror.FromError(err)
	if apperr.Retryable(err) {
		c.Header("Retry-After", strconv.Itoa(apierror.RetryAfterSeconds))
	}
	c.JSON(status, body)
}
