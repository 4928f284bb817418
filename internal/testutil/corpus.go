package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"userdir/internal/domain"
)

var fixtureNames = [][2]string{
	{"George", "Bluth"}, {"Janet", "Weaver"}, {"Emma", "Wong"},
	{"Eve", "Holt"}, {"Charles", "Morris"}, {"Tracey", "Ramos"},
	{"Michael", "Lawson"}, {"Lindsay", "Ferguson"}, {"Tobias", "Funke"},
	{"Byron", "Fields"}, {"George", "Edwards"}, {"Rachel", "Howell"},
	{"Lucille", "Bluth"}, {"Gob", "Bluth"}, {"Maeby", "Funke"},
}

// FixtureUser returns the deterministic fixture user for id (1..15).
func FixtureUser(id int) domain.User {
	name := fixtureNames[(id-1)%len(fixtureNames)]
	return domain.User{
		ID:        id,
		Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(name[0]), strings.ToLower(name[1])),
		FirstName: name[0],
		LastName:  name[1],
		Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
	}
}

// Corpus returns 15 users split into 5 pages of 3. The last page sits under a
// key that does not follow the pageN pattern.
func Corpus() domain.Corpus {
	const perPage, total = 3, 15
	corpus := domain.Corpus{Users: map[string]domain.Page{}}
	for p := 1; p <= 5; p++ {
		page := domain.Page{Page: p, PerPage: perPage, Total: total, TotalPages: 5}
		for i := 0; i < perPage; i++ {
			page.Data = append(page.Data, FixtureUser((p-1)*perPage+i+1))
		}
		key := fmt.Sprintf("page%d", p)
		if p == 5 {
			key = "final"
		}
		corpus.Users[key] = page
	}
	return corpus
}

// CorpusServer serves a corpus document and counts hits.
type CorpusServer struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns how many requests the server has answered.
func (s *CorpusServer) Hits() int64 { return s.hits.Load() }

// NewCorpusServer starts an httptest server that returns corpus as JSON.
func NewCorpusServer(t *testing.T, corpus domain.Corpus) *CorpusServer {
	t.Helper()
	body, err := json.Marshal(corpus)
	if err != nil {
		t.Fatalf("marshal corpus: %v", err)
	}
	return NewRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
}

// NewRawServer starts an httptest server with a custom handler and hit counting.
func NewRawServer(t *testing.T, handler http.HandlerFunc) *CorpusServer {
	t.Helper()
	s := &CorpusServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}
