package service

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vintervu/config"
	"vintervu/internal/model"
	"vintervu/internal/repository"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrating user model: %v", err)
	}
	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register("priya", "Priya@Example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "priya@example.com" {
		t.Errorf("stored email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "s3cret!" || user.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}

	loggedIn, token, err := svc.Login("PRIYA@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty token")
	}
	if loggedIn.Username != "priya" {
		t.Errorf("Username = %q, want priya", loggedIn.Username)
	}

	email, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if email != "priya@example.com" {
		t.Errorf("ParseToken() email = %q, want priya@example.com", email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register("first", "dup@example.com", "password"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := svc.Register("second", "DUP@example.com", "password"); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Errorf("duplicate Register() error = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestAuthService(t)
	for _, tc := range []struct{ username, email, password string }{
		{"", "a@example.com", "password"},
		{"name", "", "password"},
		{"name", "a@example.com", ""},
	} {
		if _, err := svc.Register(tc.username, tc.email, tc.password); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Register(%q, %q, ...) error = %v, want ErrInvalidInput", tc.username, tc.email, err)
		}
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	if _, err := svc.Register("priya", "priya@example.com", "s3cret!"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, _, err := svc.Login("priya@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "s3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newTestAuthService(t)
	if _, err := svc.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ParseToken(garbage) error = %v, want ErrInvalidCredentials", err)
	}
}
