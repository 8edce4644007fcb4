package service

import (
	"context"
	"strings"
	"testing"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/infrastructure/db/memory"
)

func validUser() *domain.User {
	u := domain.NewUser()
	u.Email = "a@b.co"
	u.Username = "alice"
	u.PasswordHash = "$2a$04$hash"
	return u
}

func TestUserValidator_Limits(t *testing.T) {
	uv := newUserValidator(memory.NewUserRepository())
	long := strings.Repeat("x", 73)

	u := validUser()
	u.FirstName = strings.Repeat("f", 101)
	u.Username = strings.Repeat("u", 181)

	err := uv.validate(context.Background(), &candidate{user: u, password: &long})
	de := expectKind(t, err, domain.ErrValidation, "Validation failed")
	for _, field := range []string{"firstName", "username", "password"} {
		if de.Fields[field] == "" {
			t.Fatalf("expected violation for %s, got %v", field, de.Fields)
		}
	}
	if _, ok := de.Fields["email"]; ok {
		t.Fatalf("did not expect an email violation: %v", de.Fields)
	}
}

func TestUserValidator_UniqueExcludesSelf(t *testing.T) {
	repo := memory.NewUserRepository()
	uv := newUserValidator(repo)
	ctx := context.Background()

	existing := validUser()
	if err := repo.Save(ctx, existing); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := uv.validate(ctx, &candidate{user: existing}); err != nil {
		t.Fatalf("expected the record itself to pass, got %v", err)
	}

	clash := validUser()
	err := uv.validate(ctx, &candidate{user: clash})
	de := expectKind(t, err, domain.ErrValidation, "")
	if de.Fields["email"] != msgEmailTaken || de.Fields["username"] != msgUsernameTaken {
		t.Fatalf("unexpected uniqueness violations: %v", de.Fields)
	}
}

func TestUserValidator_FormatBeforeUniqueness(t *testing.T) {
	repo := memory.NewUserRepository()
	uv := newUserValidator(repo)
	ctx := context.Background()

	u := validUser()
	u.Email = "bad"
	err := uv.validate(ctx, &candidate{user: u})
	de := expectKind(t, err, domain.ErrValidation, "")
	if de.Fields["email"] != "Please enter a valid email address." {
		t.Fatalf("unexpected email violation: %q", de.Fields["email"])
	}
}
