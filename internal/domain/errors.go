package domain

import "github.com/go-petr/pet-bank-payments/pkg/errorspkg"

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errorspkg.New("ACCOUNT_NOT_FOUND", "account not found")
	// ErrAccountBlocked indicates that the account is blocked.
	ErrAccountBlocked = errorspkg.New("ACCOUNT_BLOCKED", "account is blocked")
	// ErrInvalidOwner indicates that the user is unauthorized to pay from the account.
	ErrInvalidOwner = errorspkg.New("INVALID_OWNER", "unauthorized owner")

	// ErrCardNotFound indicates that the card is not found for the sender account.
	ErrCardNotFound = errorspkg.New("CARD_NOT_FOUND", "card not found")
	// ErrCardInactive indicates that the card is blocked.
	ErrCardInactive = errorspkg.New("CARD_INACTIVE", "card is not active")
	// ErrCardExpired indicates that the card is past its expiry date.
	ErrCardExpired = errorspkg.New("CARD_EXPIRED", "card has expired")
	// ErrCategoryNotPermitted indicates that the card category does not allow the purchase category.
	ErrCategoryNotPermitted = errorspkg.New("CATEGORY_NOT_PERMITTED", "purchase category is not permitted for the card")

	// ErrUnsupportedPaymentType indicates an unknown payment type.
	ErrUnsupportedPaymentType = errorspkg.New("UNSUPPORTED_PAYMENT_TYPE", "unsupported payment type")
	// ErrUnsupportedBank indicates a transfer to a bank outside the supported list.
	ErrUnsupportedBank = errorspkg.New("UNSUPPORTED_BANK", "receiver bank is not supported")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errorspkg.New("INVALID_AMOUNT", "invalid amount")
	// ErrNegativeAmount indicates zero or negative amount.
	ErrNegativeAmount = errorspkg.New("NEGATIVE_AMOUNT", "amount must be positive")
	// ErrSameAccount indicates that sender and receiver are the same account.
	ErrSameAccount = errorspkg.New("SAME_ACCOUNT", "sender and receiver accounts must differ")
	// ErrCurrencyMismatch indicates that the payment currency differs from the sender account currency.
	ErrCurrencyMismatch = errorspkg.New("CURRENCY_MISMATCH", "payment currency does not match sender account currency")
	// ErrUnsupportedCurrency indicates a currency outside the supported set.
	ErrUnsupportedCurrency = errorspkg.New("UNSUPPORTED_CURRENCY", "unsupported currency")

	// ErrInsufficientFunds indicates that the sender balance does not cover the amount.
	ErrInsufficientFunds = errorspkg.New("INSUFFICIENT_FUNDS", "insufficient funds")
	// ErrRateUnavailable indicates that no exchange rate could be obtained.
	ErrRateUnavailable = errorspkg.New("RATE_UNAVAILABLE", "exchange rate is unavailable")
	// ErrConcurrentModification indicates that balance contention outlasted all retries.
	ErrConcurrentModification = errorspkg.New("CONCURRENT_MODIFICATION", "account was modified concurrently, try again")
	// ErrPaymentNotFound indicates that the payment is not found.
	ErrPaymentNotFound = errorspkg.New("PAYMENT_NOT_FOUND", "payment not found")

	// ErrTokenInvalid indicates a malformed, unknown or foreign token.
	ErrTokenInvalid = errorspkg.New("TOKEN_INVALID", "token is invalid")
	// ErrTokenExpired indicates an expired token.
	ErrTokenExpired = errorspkg.New("TOKEN_EXPIRED", "token has expired")
	// ErrTokenRevoked indicates a revoked token.
	ErrTokenRevoked = errorspkg.New("TOKEN_REVOKED", "token has been revoked")

	// ErrMessageNotFound indicates that the message is not found.
	ErrMessageNotFound = errorspkg.New("MESSAGE_NOT_FOUND", "message not found")
	// ErrMessageExists indicates that a message for the payment was already stored.
	ErrMessageExists = errorspkg.New("MESSAGE_EXISTS", "message already exists")
)
