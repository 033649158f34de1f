package services

import (
	"errors"
	"testing"

	"github.com/tmatias/planwise/backend/internal/config"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, &config.JWTConfig{Secret: "test-secret-for-service-testing", ExpireHour: 24})
}

func TestSignUp_CreatesAndSignsIn(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	result, err := svc.SignUp(&SignUpRequest{
		Email:           "new@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FirstName:       "New",
		LastName:        "User",
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("sign-up should issue a token pair")
	}
	if result.User == nil || result.User.Email != "new@example.com" {
		t.Error("sign-up should return the created user")
	}
}

func TestSignUp_PasswordMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	_, err := svc.SignUp(&SignUpRequest{
		Email:           "new@example.com",
		Password:        "password123",
		ConfirmPassword: "different123",
		FirstName:       "New",
		LastName:        "User",
	}, "", "")
	if !errors.Is(err, ErrPasswordsDoNotMatch) {
		t.Errorf("expected ErrPasswordsDoNotMatch, got %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "taken@example.com")
	svc := newTestAuthService(db)

	_, err := svc.SignUp(&SignUpRequest{
		Email:           "taken@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FirstName:       "Dup",
		LastName:        "User",
	}, "", "")
	if !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Errorf("expected ErrEmailAlreadyInUse, got %v", err)
	}
}

func TestSignIn_UniformInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "known@example.com")
	svc := newTestAuthService(db)

	// Unknown email and wrong password must be indistinguishable
	_, errUnknown := svc.SignIn(&SignInRequest{Email: "nobody@example.com", Password: "password123"}, "", "")
	_, errWrongPw := svc.SignIn(&SignInRequest{Email: "known@example.com", Password: "wrongpassword"}, "", "")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
}

func TestSignIn_Success(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "known@example.com")
	svc := newTestAuthService(db)

	result, err := svc.SignIn(&SignInRequest{Email: user.Email, Password: "password123"}, "127.0.0.1", "agent")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if result.User.ID != user.ID {
		t.Errorf("signed-in user id = %d, expected %d", result.User.ID, user.ID)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "known@example.com")
	svc := newTestAuthService(db)

	signIn, err := svc.SignIn(&SignInRequest{Email: user.Email, Password: "password123"}, "", "")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	refreshed, err := svc.Refresh(signIn.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.RefreshToken == signIn.RefreshToken {
		t.Error("refresh should rotate the refresh token")
	}

	// The old token is revoked by rotation
	if _, err := svc.Refresh(signIn.RefreshToken, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("reusing rotated token: expected ErrInvalidCredentials, got %v", err)
	}

	// The new token still works
	if _, err := svc.Refresh(refreshed.RefreshToken, "", ""); err != nil {
		t.Errorf("new token refresh failed: %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "known@example.com")
	svc := newTestAuthService(db)

	signIn, _ := svc.SignIn(&SignInRequest{Email: user.Email, Password: "password123"}, "", "")

	if err := svc.RevokeRefreshToken(signIn.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}

	if _, err := svc.Refresh(signIn.RefreshToken, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("revoked token: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "known@example.com")
	svc := newTestAuthService(db)

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "wrongpassword",
		NewPassword:     "newpassword1",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current password: expected ErrInvalidCredentials, got %v", err)
	}

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.SignIn(&SignInRequest{Email: user.Email, Password: "newpassword1"}, "", ""); err != nil {
		t.Errorf("sign-in with new password failed: %v", err)
	}
}
