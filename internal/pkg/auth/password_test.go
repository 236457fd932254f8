package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}

	if !CheckPassword(hashed, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hashed, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestNewResetToken(t *testing.T) {
	raw, hashed, err := NewResetToken()
	if err != nil {
		t.Fatalf("failed to generate reset token: %v", err)
	}

	if len(raw) != 40 {
		t.Errorf("expected 40 hex chars of raw token, got %d", len(raw))
	}
	if hashed == raw {
		t.Error("stored token must be a digest of the raw token")
	}
	if HashResetToken(raw) != hashed {
		t.Error("digest of raw token must match the stored hash")
	}

	raw2, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("failed to generate second token: %v", err)
	}
	if raw == raw2 {
		t.Error("tokens must be unique")
	}
}
