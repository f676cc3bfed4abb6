package service

import (
	"net/http"
	"testing"

	"github.com/rubenatello/dignov2/internal/db"
)

func TestCanWrite(t *testing.T) {
	subscriber := &db.User{Role: db.RoleSubscriber}
	writer := &db.User{Role: db.RoleWriter}
	editor := &db.User{Role: db.RoleEditor}
	staff := &db.User{Role: db.RoleSubscriber, IsStaff: true}
	superuser := &db.User{Role: db.RoleSubscriber, IsSuperuser: true}

	cases := []struct {
		name   string
		user   *db.User
		method string
		want   bool
	}{
		{"anonymous read", nil, http.MethodGet, true},
		{"anonymous head", nil, http.MethodHead, true},
		{"anonymous write", nil, http.MethodPost, false},
		{"anonymous delete", nil, http.MethodDelete, false},
		{"subscriber read", subscriber, http.MethodGet, true},
		{"subscriber post", subscriber, http.MethodPost, false},
		{"subscriber put", subscriber, http.MethodPut, false},
		{"subscriber patch", subscriber, http.MethodPatch, false},
		{"subscriber delete", subscriber, http.MethodDelete, false},
		{"writer post", writer, http.MethodPost, true},
		{"writer patch", writer, http.MethodPatch, true},
		{"writer delete", writer, http.MethodDelete, false},
		{"editor post", editor, http.MethodPost, true},
		{"editor delete", editor, http.MethodDelete, true},
		{"staff delete", staff, http.MethodDelete, true},
		{"staff post without role", staff, http.MethodPost, false},
		{"superuser post", superuser, http.MethodPost, true},
		{"superuser delete", superuser, http.MethodDelete, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanWrite(tc.user, tc.method); got != tc.want {
				t.Fatalf("CanWrite(%v, %s) = %v, want %v", tc.user, tc.method, got, tc.want)
			}
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	if CanManageUsers(nil) {
		t.Fatalf("anonymous must not manage users")
	}
	if CanManageUsers(&db.User{Role: db.RoleEditor}) {
		t.Fatalf("plain editor must not manage users")
	}
	if !CanManageUsers(&db.User{IsStaff: true}) {
		t.Fatalf("staff should manage users")
	}
	if !CanManageUsers(&db.User{IsSuperuser: true}) {
		t.Fatalf("superuser should manage users")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Senate Passes Budget Bill":  "senate-passes-budget-bill",
		"  Mixed   CASE  ":           "mixed-case",
		"Already-Slugged":            "already-slugged",
		"Punctuation, everywhere!?":  "punctuation-everywhere",
		"2026 Election: What's Next": "2026-election-what-s-next",
		"":                           "",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
