package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator to compare decimal amounts, so
// tags such as gte=0 work on decimal fields. A null decimal fails required.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			switch d := field.Interface().(type) {
			case decimal.Decimal:
				f, _ := d.Float64()
				return f
			case decimal.NullDecimal:
				if !d.Valid {
					return nil
				}
				f, _ := d.Decimal.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{}, decimal.NullDecimal{})
	})
}

// validationDetails maps each failing field to the tag it failed, or nil when
// err is not a validation failure (e.g. malformed JSON).
func validationDetails(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	details := make(map[string]string, len(ves))
	for _, ve := range ves {
		details[ve.Field()] = ve.Tag()
	}
	return details
}

// badRequest responds 400 for a failed bind, listing per-field failures when known.
func badRequest(c *gin.Context, err error) {
	body := gin.H{"error": "Invalid request format: " + err.Error()}
	if details := validationDetails(err); details != nil {
		body["fields"] = details
	}
	c.JSON(http.StatusBadRequest, body)
}
