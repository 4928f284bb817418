package domain

import "strings"

// User is a directory entry as delivered by the remote corpus.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// SameUser reports whether both values describe the same identity.
func (u User) SameUser(other User) bool {
	return u.ID == other.ID
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Page is one server-delivered slice of the corpus with pagination metadata.
type Page struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// ExpectedTotalPages returns ceil(total / per_page).
func (p Page) ExpectedTotalPages() int {
	if p.PerPage <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Corpus is the remote document: page objects under opaque keys.
type Corpus struct {
	Users map[string]Page `json:"users"`
}

// ThemeMode is the persisted UI colour scheme.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// CloneUsers copies a user slice so stores never share backing arrays.
func CloneUsers(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	copy(out, users)
	return out
}
