package models

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// First name, alphabetic, 2-50 characters
	// required: true
	// example: John
	Firstname string `json:"firstname"`

	// Last name, alphabetic, 2-50 characters
	// required: true
	// example: Doe
	Lastname string `json:"lastname"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Username, alphanumeric, 3-30 characters
	// required: true
	// example: johndoe123
	Username string `json:"username"`

	// Password, min 8 characters with letters, digits and special characters
	// required: true
	// example: SecurePass@123
	Password string `json:"password"`

	// Confirm password, must match password
	// required: true
	// example: SecurePass@123
	ConfirmPassword string `json:"confirmpassword"`

	// Country code, + followed by 1-4 digits
	// required: true
	// example: +1
	CountryCode string `json:"countrycode"`

	// Mobile number, 10-15 digits
	// required: true
	// example: 1234567890
	MobileNumber string `json:"mobilenumber"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Success message
	// example: User created successfully
	Message string `json:"message"`
}

// ErrorInfo carries detail about a failed registration
// swagger:model ErrorInfo
type ErrorInfo struct {
	// Human-readable failure detail
	// example: Username already exists
	Detail string `json:"detail"`
}

// RegisterErrorResponse represents a business-rule or internal error response
// swagger:model RegisterErrorResponse
type RegisterErrorResponse struct {
	// Error message
	// example: Validation error
	Message string `json:"message"`

	// Failure detail
	ErrorInfo *ErrorInfo `json:"errorInfo,omitempty"`
}
