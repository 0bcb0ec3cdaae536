package sessions

// State is the position of the session in its lifecycle.
type State int

const (
	StateUnknown       State = iota // before the startup check resolves
	StateAnonymous                  // no confirmed user
	StateAwaitingOTP                // credentials accepted pending a 2FA code
	StateAuthenticated              // token stored and profile confirmed
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAwaitingOTP:
		return "awaiting_otp"
	case StateAuthenticated:
		return "authenticated"
	}
	return "invalid"
}
