package identity

import (
	"errors"
	"testing"

	"github.com/maruel/ksid"
)

func newTestService(t *testing.T) *UserService {
	t.Helper()
	if err := ksid.InitIDSlice(0, 1); err != nil {
		t.Fatalf("InitIDSlice: %v", err)
	}
	svc, err := NewUserService(t.TempDir())
	if err != nil {
		t.Fatalf("NewUserService: %v", err)
	}
	return svc
}

func TestUserServiceCreate(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Create("alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID.IsZero() {
		t.Error("user ID is zero")
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("user = %+v", user)
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		if _, err := svc.Create("alice@example.com", "other", "Alice 2"); !errors.Is(err, errUserExists) {
			t.Errorf("err = %v, want errUserExists", err)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		if _, err := svc.Create("", "pw", ""); err == nil {
			t.Error("Create with empty email succeeded")
		}
		if _, err := svc.Create("bob@example.com", "", ""); err == nil {
			t.Error("Create with empty password succeeded")
		}
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create("alice@example.com", "hunter22", "Alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("alice@example.com", "hunter22")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("user = %+v", user)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Authenticate("alice@example.com", "wrong"); !errors.Is(err, errInvalidCreds) {
			t.Errorf("err = %v, want errInvalidCreds", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Authenticate("nobody@example.com", "hunter22"); !errors.Is(err, errInvalidCreds) {
			t.Errorf("err = %v, want errInvalidCreds", err)
		}
	})
}

func TestUserServiceGet(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create("alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email != created.Email {
		t.Errorf("Get = %+v", got)
	}

	if _, err := svc.Get(ksid.ID(0)); err == nil {
		t.Error("Get with zero ID succeeded")
	}

	byEmail, err := svc.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetByEmail ID = %v, want %v", byEmail.ID, created.ID)
	}
}
