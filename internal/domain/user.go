package domain

// AccountType distinguishes the two kinds of accounts a visitor can create.
type AccountType string

const (
	AccountTourist AccountType = "tourist"
	AccountGuide   AccountType = "guide"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == AccountTourist || t == AccountGuide
}

// User is a registry entry as persisted under degy_users.
//
// The JSON field names are part of the storage contract and must not change.
// ID is the unix-millis creation timestamp rendered as a string; it is only
// locally unique. Password is stored as entered: the registry is local
// single-visitor state, not a real credential store.
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Type      AccountType `json:"type"`
	CreatedAt string      `json:"createdAt"` // ISO-8601
}

// SessionUser is the public projection of a User exposed to consumers and
// persisted under degy_auth. It never carries the password.
type SessionUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Type  AccountType `json:"type"`
}

// Session returns the SessionUser projection of u.
func (u User) Session() SessionUser {
	return SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Type:  u.Type,
	}
}
