package handlers

import (
	"errors"
	"fmt"

	"github.com/Janeirohurley/worker-api/internal/response"
	"github.com/go-playground/validator/v10"
)

// validationMessage returns a user-facing message for the first failing
// field of a binding error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return response.MsgInvalidBody
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return fmt.Sprintf("Name must be at least %s characters", fe.Param())
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email"
	case "Password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "max":
			return fmt.Sprintf("Password must be at most %s characters", fe.Param())
		default:
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
