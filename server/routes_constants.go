package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Token & Profile
	RouteAuthToken = "/auth/token"
	RouteAuthMe    = "/auth/me"

	// Auth Routes - Two-factor
	RouteAuth2FASetup    = "/auth/2fa/setup"
	RouteAuth2FAActivate = "/auth/2fa/activate"
	RouteAuth2FADisable  = "/auth/2fa/disable"

	// Admin Routes
	RouteAuthRegister = "/auth/register"

	RouteHealth = "/health"
)

// otpQueryParam carries the TOTP code on the token and 2FA routes.
const otpQueryParam = "otp_code"
