package model

// User is a registered account that owns links and accrues rewards.
// Balance is mutated only by visit crediting and withdrawal requests.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Balance      Money  `json:"balance"`
}
