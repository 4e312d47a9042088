package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/currencypkg"
	"github.com/go-playground/validator/v10"
)

// ValidPaymentType validates whether the payment type is known.
var ValidPaymentType validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		switch domain.PaymentType(s) {
		case domain.CardPayment, domain.BankTransfer:
			return true
		}
	}

	return false
}

// RegisterValidators adds the custom binding tags used by the handlers.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
		return err
	}

	return v.RegisterValidation("paymenttype", ValidPaymentType)
}
