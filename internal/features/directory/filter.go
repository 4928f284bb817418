package directory

import (
	"strings"

	"userdir/internal/domain"
)

// Filter projects items onto those whose "first last email" contains term,
// ignoring case. A blank term returns every item. It never touches pagination.
func Filter(items []domain.User, term string) []domain.User {
	if strings.TrimSpace(term) == "" {
		return domain.CloneUsers(items)
	}
	q := strings.ToLower(term)
	out := make([]domain.User, 0, len(items))
	for _, u := range items {
		if Matches(u, q) {
			out = append(out, u)
		}
	}
	return out
}

// Matches reports whether the lower-cased query occurs in the user's search text.
func Matches(u domain.User, lowerQuery string) bool {
	return strings.Contains(searchText(u), lowerQuery)
}

func searchText(u domain.User) string {
	return strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
}
