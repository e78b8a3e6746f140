package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// iconSizeTokens are the size tokens the icon endpoint accepts.
var iconSizeTokens = map[string]struct{}{
	"32":  {},
	"64":  {},
	"128": {},
}

// RegisterValidations installs custom binding validations. Call once at startup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("sizetoken", validateSizeToken)
}

func validateSizeToken(fl validator.FieldLevel) bool {
	_, ok := iconSizeTokens[fl.Field().String()]
	return ok
}
