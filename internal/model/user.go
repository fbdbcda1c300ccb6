package model

import "time"

// User is the account the API token belongs to. The cache holds one user.
type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	APIToken    string    `json:"api_token"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewUser creates a user.
func NewUser(id int64, name, token string, lastUpdated time.Time) User {
	return User{ID: id, Name: name, APIToken: token, LastUpdated: lastUpdated}
}

// Equal reports whether every field of u and o matches.
func (u User) Equal(o User) bool {
	return u.ID == o.ID && u.Name == o.Name && u.APIToken == o.APIToken && u.LastUpdated.Equal(o.LastUpdated)
}

// Less orders users by case-insensitive name.
func (u User) Less(o User) bool {
	return lessName(u.Name, o.Name)
}

// TokenRotated reports whether the user's token differs from token.
func (u User) TokenRotated(token string) bool {
	return u.APIToken != "" && u.APIToken != token
}
