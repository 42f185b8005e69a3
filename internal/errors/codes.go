package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductInvalidOption = "PRODUCT_INVALID_OPTION"

	// ==================== Cart (CART_) ====================
	CartNotFound        = "CART_NOT_FOUND"
	CartLineNotFound    = "CART_LINE_NOT_FOUND"
	CartEmpty           = "CART_EMPTY"
	CartOptionRequired  = "CART_OPTION_REQUIRED"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartMergeFailed     = "CART_MERGE_FAILED"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutNotFound         = "CHECKOUT_NOT_FOUND"
	CheckoutAddressRequired  = "CHECKOUT_ADDRESS_REQUIRED"
	CheckoutAlreadyFinalized = "CHECKOUT_ALREADY_FINALIZED"
	CheckoutNotPaid          = "CHECKOUT_NOT_PAID"

	// ==================== Payment (PAYMENT_) ====================
	PaymentFailed           = "PAYMENT_FAILED"
	PaymentInvalidSignature = "PAYMENT_INVALID_SIGNATURE"
	PaymentGatewayError     = "PAYMENT_GATEWAY_ERROR"

	// ==================== Order (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
