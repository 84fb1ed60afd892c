package domain

// Auth is a single gateway admin capability.
type Auth uint8

const (
	AuthRegister Auth = 1 << iota
	AuthDeposit
	AuthWithdraw
	AuthSudo
)

func (a Auth) String() string {
	switch a {
	case AuthRegister:
		return "Register"
	case AuthDeposit:
		return "Deposit"
	case AuthWithdraw:
		return "Withdraw"
	case AuthSudo:
		return "Sudo"
	default:
		return "Unknown"
	}
}

// Auths is the capability set granted to an account. Checks are
// independent bit tests. The zero value grants nothing.
type Auths uint8

const AuthsNone Auths = 0

func (a Auths) Contains(auth Auth) bool {
	return uint8(a)&uint8(auth) != 0
}

func (a Auths) Add(auth Auth) Auths {
	return Auths(uint8(a) | uint8(auth))
}
