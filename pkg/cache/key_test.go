package cache

import (
	"strings"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	body := []byte(`{"query":"query AutocompleteSearchQuery","variables":{"query":"washington"}}`)

	key := CacheKey{Operation: "AutocompleteSearchQuery", Body: body}
	got := key.String()

	if !strings.HasPrefix(got, "rmp:gql:AutocompleteSearchQuery:") {
		t.Errorf("String() = %q, want rmp:gql:AutocompleteSearchQuery: prefix", got)
	}
	// prefix + ':' + operation + ':' + 64 hex chars
	if want := len("rmp:gql:AutocompleteSearchQuery:") + 64; len(got) != want {
		t.Errorf("len(String()) = %d, want %d", len(got), want)
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	body := []byte(`{"variables":{"cursor":"YXJyYXljb25uZWN0aW9uOjk5"}}`)

	a := CacheKey{Operation: "TeacherSearchPaginationQuery", Body: body}.String()
	b := CacheKey{Operation: "TeacherSearchPaginationQuery", Body: append([]byte(nil), body...)}.String()
	if a != b {
		t.Errorf("identical keys differ: %q vs %q", a, b)
	}
}

func TestCacheKey_DistinguishesBodiesAndOperations(t *testing.T) {
	first := CacheKey{Operation: "TeacherSearchPaginationQuery", Body: []byte(`{"cursor":"c1"}`)}
	second := CacheKey{Operation: "TeacherSearchPaginationQuery", Body: []byte(`{"cursor":"c2"}`)}
	other := CacheKey{Operation: "TeacherSearchResultsPageQuery", Body: []byte(`{"cursor":"c1"}`)}

	if first.String() == second.String() {
		t.Error("different cursors must produce different keys")
	}
	if first.String() == other.String() {
		t.Error("different operations must produce different keys")
	}
}

func TestCacheKey_AnonymousOperation(t *testing.T) {
	got := CacheKey{Body: []byte(`{}`)}.String()
	if !strings.HasPrefix(got, "rmp:gql:anonymous:") {
		t.Errorf("String() = %q, want anonymous operation", got)
	}
}
