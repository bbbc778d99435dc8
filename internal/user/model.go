package user

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// Profile is the shipping/contact record shown on the account page.
type Profile struct {
	UserID    int64  `json:"userId"`
	Address   string `json:"address"`
	Tel       string `json:"tel"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}
