package directory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"userdir/internal/domain"
)

func sampleUsers() []domain.User {
	return []domain.User{
		{ID: 1, FirstName: "George", LastName: "Bluth", Email: "george.bluth@reqres.in"},
		{ID: 2, FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"},
		{ID: 3, FirstName: "Emma", LastName: "Wong", Email: "emma.wong@reqres.in"},
	}
}

func TestFilterBlankTermReturnsAll(t *testing.T) {
	items := sampleUsers()
	assert.Equal(t, items, Filter(items, ""))
	assert.Equal(t, items, Filter(items, "   "))
}

func TestFilterIsCaseInsensitiveSubset(t *testing.T) {
	items := sampleUsers()
	for _, term := range []string{"WEAVER", "bluth", "reqres", "emma wong", "nobody", "george bluth george"} {
		got := Filter(items, term)
		q := strings.ToLower(term)
		included := map[int]bool{}
		for _, u := range got {
			included[u.ID] = true
			assert.Contains(t, strings.ToLower(u.FirstName+" "+u.LastName+" "+u.Email), q, "term %q", term)
		}
		for _, u := range items {
			if !included[u.ID] {
				assert.NotContains(t, strings.ToLower(u.FirstName+" "+u.LastName+" "+u.Email), q, "term %q", term)
			}
		}
	}
	assert.Len(t, Filter(items, "w"), 2)
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	items := sampleUsers()
	out := Filter(items, "")
	out[0].FirstName = "changed"
	assert.Equal(t, "George", items[0].FirstName)
}
