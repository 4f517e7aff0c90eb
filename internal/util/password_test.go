package util

import "testing"

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("hunter22", "not-a-hash") {
		t.Error("garbage hash accepted")
	}
}
