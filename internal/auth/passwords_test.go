package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == nil || *hash == "" {
		t.Fatal("empty hash")
	}
	if *hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordEmptyIsNil(t *testing.T) {
	hash, err := HashPassword("")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash != nil {
		t.Errorf("hash = %q, want nil for empty password", *hash)
	}
}

func TestVerifyPasswordNilHashNeverMatches(t *testing.T) {
	if VerifyPassword("anything", nil) {
		t.Error("nil hash matched a password")
	}
	empty := ""
	if VerifyPassword("anything", &empty) {
		t.Error("empty hash matched a password")
	}
}
