package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"userdir/internal/domain"
	"userdir/internal/features/health"
	userdirhttp "userdir/internal/platform/http"
	"userdir/internal/testutil"
)

func newHandler(t *testing.T, disableCSRF bool) (http.Handler, *testutil.CorpusServer) {
	t.Helper()
	testutil.ChdirRepoRoot(t)
	corpus := testutil.NewCorpusServer(t, testutil.Corpus())
	cfg := testutil.TestConfig(t, corpus.URL)
	cfg.DisableCSRF = disableCSRF
	return userdirhttp.Routes(testutil.NewServerWithConfig(t, cfg)), corpus
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func state(t *testing.T, h http.Handler) health.StateView {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/api/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", rec.Code)
	}
	var view health.StateView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return view
}

// TestRootRedirectsToUsers verifies the root path behavior.
func TestRootRedirectsToUsers(t *testing.T) {
	h, _ := newHandler(t, true)
	rec := do(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/users" {
		t.Fatalf("expected redirect to /users, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestUsersListFirstPage(t *testing.T) {
	h, corpus := newHandler(t, true)
	rec := do(t, h, http.MethodGet, "/users", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"George Bluth", "Janet Weaver", "Emma Wong", "Page 1 of 5"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
	if corpus.Hits() != 1 {
		t.Fatalf("expected one corpus fetch, got %d", corpus.Hits())
	}
}

func TestUsersListSearchFiltersCurrentPage(t *testing.T) {
	h, _ := newHandler(t, true)
	rec := do(t, h, http.MethodGet, "/users?page=2&q=EVE", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "Eve Holt") {
		t.Fatalf("expected Eve Holt in filtered page")
	}
	if strings.Contains(body, "Charles Morris") {
		t.Fatalf("expected Charles Morris filtered out")
	}

	view := state(t, h)
	if view.Directory.Page != 2 || view.Directory.SearchTerm != "EVE" {
		t.Fatalf("unexpected directory state %+v", view.Directory)
	}
	if len(view.Directory.Items) != 3 || len(view.Visible) != 1 {
		t.Fatalf("expected 3 items and 1 visible, got %d/%d", len(view.Directory.Items), len(view.Visible))
	}
}

func TestUsersListMissingPageShowsError(t *testing.T) {
	h, _ := newHandler(t, true)
	rec := do(t, h, http.MethodGet, "/users?page=99", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected inline error with 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "page 99 not found") {
		t.Fatalf("expected not found message, got %s", rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/users?page=abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed page, got %d", rec.Code)
	}
}

func TestUsersListPastLastPageLinksBackToLastPage(t *testing.T) {
	h, _ := newHandler(t, true)
	do(t, h, http.MethodGet, "/users?page=1", nil)
	rec := do(t, h, http.MethodGet, "/users?page=99", nil)
	if !strings.Contains(rec.Body.String(), `href="/users?page=5"`) {
		t.Fatalf("expected previous link to the last page, got %s", rec.Body.String())
	}
}

func TestClientDisconnectDoesNotRecordFailure(t *testing.T) {
	h, _ := newHandler(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, target := range []string{"/users?page=2", "/users/4"} {
		req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	view := state(t, h)
	if view.Directory.Err != "" || view.Directory.Page != 2 || len(view.Directory.Items) != 3 {
		t.Fatalf("expected page 2 loaded despite disconnect, got %+v", view.Directory)
	}
	if view.Detail.Err != "" || view.Detail.Selected == nil || view.Detail.Selected.ID != 4 {
		t.Fatalf("expected user 4 selected despite disconnect, got %+v", view.Detail)
	}
}

func TestUserDetail(t *testing.T) {
	h, _ := newHandler(t, true)
	rec := do(t, h, http.MethodGet, "/users/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "janet.weaver@reqres.in") {
		t.Fatalf("expected detail email in body")
	}
	if view := state(t, h); view.Detail.Selected == nil || view.Detail.Selected.ID != 2 {
		t.Fatalf("expected user 2 selected, got %+v", view.Detail)
	}

	rec = do(t, h, http.MethodGet, "/users/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User with ID 42 not found") {
		t.Fatalf("expected not found message")
	}
	if view := state(t, h); view.Detail.Selected != nil {
		t.Fatalf("expected selection cleared after failure")
	}
}

func TestListClearsDetailSelection(t *testing.T) {
	h, _ := newHandler(t, true)
	do(t, h, http.MethodGet, "/users/3", nil)
	do(t, h, http.MethodGet, "/users", nil)
	if view := state(t, h); view.Detail.Selected != nil {
		t.Fatalf("expected detail cleared when returning to the list")
	}
}

func TestFavoritesToggleFlow(t *testing.T) {
	h, corpus := newHandler(t, true)
	do(t, h, http.MethodGet, "/users", nil)
	hits := corpus.Hits()

	rec := do(t, h, http.MethodPost, "/favorites/toggle", url.Values{"id": {"1"}, "next": {"/favorites"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/favorites" {
		t.Fatalf("expected redirect to /favorites, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if corpus.Hits() != hits {
		t.Fatalf("toggle must not fetch")
	}

	rec = do(t, h, http.MethodGet, "/favorites", nil)
	if !strings.Contains(rec.Body.String(), "George Bluth") {
		t.Fatalf("expected favorite listed")
	}
	view := state(t, h)
	if len(view.Favorites) != 1 || view.Favorites[0].ID != 1 {
		t.Fatalf("unexpected favorites %+v", view.Favorites)
	}

	rec = do(t, h, http.MethodPost, "/favorites/toggle", url.Values{"id": {"1"}, "next": {"//evil.example"}})
	if rec.Header().Get("Location") != "/users" {
		t.Fatalf("expected unsafe next to fall back to /users, got %q", rec.Header().Get("Location"))
	}
	if view := state(t, h); len(view.Favorites) != 0 {
		t.Fatalf("expected favorites empty after second toggle")
	}
}

func TestFavoritesToggleUnknownUser(t *testing.T) {
	h, _ := newHandler(t, true)
	rec := do(t, h, http.MethodPost, "/favorites/toggle", url.Values{"id": {"7"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a user not in memory, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/favorites/toggle", url.Values{"id": {"x"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestFavoritesClearAndExport(t *testing.T) {
	h, _ := newHandler(t, true)
	do(t, h, http.MethodGet, "/users", nil)
	do(t, h, http.MethodPost, "/favorites/toggle", url.Values{"id": {"2"}})
	do(t, h, http.MethodPost, "/favorites/toggle", url.Values{"id": {"3"}})

	rec := do(t, h, http.MethodGet, "/favorites.json", nil)
	var exported []domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported) != 2 || exported[0].ID != 2 || exported[1].ID != 3 {
		t.Fatalf("unexpected export %+v", exported)
	}

	rec = do(t, h, http.MethodPost, "/favorites/clear", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if view := state(t, h); len(view.Favorites) != 0 {
		t.Fatalf("expected favorites cleared")
	}
}

func TestPostsRequireCSRF(t *testing.T) {
	h, _ := newHandler(t, false)
	do(t, h, http.MethodGet, "/users", nil)
	for _, target := range []string{"/favorites/toggle", "/favorites/clear", "/theme/toggle"} {
		rec := do(t, h, http.MethodPost, target, url.Values{"id": {"1"}})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 without csrf token, got %d", target, rec.Code)
		}
	}
}

func TestThemeToggle(t *testing.T) {
	h, _ := newHandler(t, true)
	if view := state(t, h); view.Theme != domain.ThemeLight {
		t.Fatalf("expected light by default, got %q", view.Theme)
	}
	rec := do(t, h, http.MethodPost, "/theme/toggle", url.Values{"next": {"/favorites"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/favorites" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if view := state(t, h); view.Theme != domain.ThemeDark {
		t.Fatalf("expected dark, got %q", view.Theme)
	}
	rec = do(t, h, http.MethodGet, "/favorites", nil)
	if !strings.Contains(rec.Body.String(), `data-theme="dark"`) {
		t.Fatalf("expected dark theme in layout")
	}
}

func TestQRCodeForKnownUser(t *testing.T) {
	h, _ := newHandler(t, true)
	if rec := do(t, h, http.MethodGet, "/users/1/qr.png", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before the user is loaded, got %d", rec.Code)
	}
	do(t, h, http.MethodGet, "/users", nil)
	rec := do(t, h, http.MethodGet, "/users/1/qr.png", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected png, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if _, err := png.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Fatalf("decode qr: %v", err)
	}
}

func TestAvatarThumbnail(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	var src bytes.Buffer
	if err := png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 90, 60))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(src.Bytes())
	}))
	defer images.Close()

	corpusDoc := testutil.Corpus()
	page := corpusDoc.Users["page1"]
	page.Data[0].Avatar = images.URL + "/1.png"
	corpusDoc.Users["page1"] = page
	corpus := testutil.NewCorpusServer(t, corpusDoc)
	h := userdirhttp.Routes(testutil.NewServerWithConfig(t, testutil.TestConfig(t, corpus.URL)))

	do(t, h, http.MethodGet, "/users", nil)
	rec := do(t, h, http.MethodGet, "/avatars/1?size=40", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode avatar: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 40 {
		t.Fatalf("expected 40x40, got %v", img.Bounds())
	}
	if rec := do(t, h, http.MethodGet, "/avatars/77", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newHandler(t, true)
	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/metrics", nil)
	if !strings.Contains(rec.Body.String(), "userdir_http_requests_total") {
		t.Fatalf("expected request metrics")
	}
}
