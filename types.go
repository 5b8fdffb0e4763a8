package aegis

// UserData is the client-safe projection of a user record returned by
// [Engine.UserData]. It never carries the password hash or OTP state.
type UserData struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// RegisterInput carries the fields accepted by [Engine.Register].
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}
