package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewService(path, "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register("Admin@Example.com", "Admin", "s3cret", "admin")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plain text")
	}

	resp, err := svc.Login(LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Role != "admin" {
		t.Errorf("role = %q, want admin", resp.User.Role)
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "admin@example.com" || claims.UserID != user.ID {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register("a@b.mx", "A", "right", ""); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(LoginRequest{Email: "a@b.mx", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(LoginRequest{Email: "nobody@b.mx", Password: "right"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterSeatCap(t *testing.T) {
	svc := newTestService(t)
	for i := 0; i < DefaultMaxUsers; i++ {
		email := string(rune('a'+i)) + "@b.mx"
		if _, err := svc.Register(email, "U", "pw", ""); err != nil {
			t.Fatalf("Register %d: %v", i, err)
		}
	}
	if _, err := svc.Register("extra@b.mx", "X", "pw", ""); !errors.Is(err, ErrUserLimitReached) {
		t.Errorf("err = %v, want ErrUserLimitReached", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register("dup@b.mx", "A", "pw", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register("DUP@b.mx", "B", "pw", ""); !errors.Is(err, ErrUserExists) {
		t.Errorf("err = %v, want ErrUserExists", err)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newTestService(t)
	other := NewService(filepath.Join(t.TempDir(), "users.json"), "other-secret", time.Hour)
	if _, err := other.Register("a@b.mx", "A", "pw", ""); err != nil {
		t.Fatal(err)
	}
	resp, err := other.Login(LoginRequest{Email: "a@b.mx", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(resp.Token); err == nil {
		t.Error("token signed with another secret validated")
	}
}
