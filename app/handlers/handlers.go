// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/link360/pool-api/models"
)

// newValidator builds a validator with the cargo-specific tags registered
func newValidator() *validator.Validate {
	v := validator.New()

	// box_code accepts only codes present in the standard box table
	_ = v.RegisterValidation("box_code", func(fl validator.FieldLevel) bool {
		_, ok := models.StandardBoxes[fl.Field().String()]
		return ok
	})

	// estimate_category accepts only known rough-estimate sizes
	_ = v.RegisterValidation("estimate_category", func(fl validator.FieldLevel) bool {
		_, ok := models.EstimateCategoryFt3[fl.Field().String()]
		return ok
	})

	return v
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "uuid4":
		return err.Field() + " must be a valid UUID"
	case "box_code":
		return err.Field() + " must be a known standard box code"
	case "estimate_category":
		return err.Field() + " must be a known estimate size"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
