package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserFullName(t *testing.T) {
	middle := "Q"
	cases := []struct {
		name string
		user User
		want string
	}{
		{"no middle", User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"with middle", User{FirstName: "Ada", MiddleName: &middle, LastName: "Lovelace"}, "Ada Q Lovelace"},
	}
	for _, tc := range cases {
		if got := tc.user.FullName(); got != tc.want {
			t.Errorf("%s: FullName = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestUserJSONNeverLeaksPasswordHash(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	u := User{ID: "u-1", Email: "a@example.com", FirstName: "A", LastName: "B", PasswordHash: &hash}

	b, err := json.Marshal(&u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "password") || strings.Contains(string(b), hash) {
		t.Errorf("serialized user leaks password hash: %s", b)
	}
}

func TestRequestStatusConstants(t *testing.T) {
	if RequestStatusPending != "pending" || RequestStatusApproved != "approved" || RequestStatusDenied != "denied" {
		t.Error("request status constants must match the wire contract")
	}
}
