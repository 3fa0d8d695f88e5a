package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KHILANO5/Campusfound/internal/model"
	"github.com/KHILANO5/Campusfound/internal/repository"
	"github.com/KHILANO5/Campusfound/pkg/apperr"
)

func TestRegister(t *testing.T) {
	f := newFixture(t, newStepClock(0))
	ctx := context.Background()

	u, err := f.auth.Register(ctx, RegisterInput{Name: " Ann ", Email: " Ann@X.edu ", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@x.edu", u.Email)

	var stored model.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.edu", Password: "pw123456"})
	require.NoError(t, err)

	for _, email := range []string{"ann@x.edu", "ANN@x.edu"} {
		_, err = f.auth.Register(ctx, RegisterInput{Name: "Other Ann", Email: email, Password: "different1"})
		assert.ErrorIs(t, err, apperr.ErrConflict, email)
	}

	var n int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing name", RegisterInput{Email: "a@x.edu", Password: "pw123456"}, "name"},
		{"missing email", RegisterInput{Name: "A", Password: "pw123456"}, "email"},
		{"malformed email", RegisterInput{Name: "A", Email: "not-an-email", Password: "pw123456"}, "email"},
		{"short password", RegisterInput{Name: "A", Email: "a@x.edu", Password: "pw1"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(context.Background(), tt.in)
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, apperr.KindValidation, ae.Kind)
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.edu", Password: "pw123456"})
	require.NoError(t, err)

	u, err := f.auth.Login(ctx, LoginInput{Email: "Ann@x.edu", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.edu", Password: "pw123456"})
	require.NoError(t, err)

	_, unknownErr := f.auth.Login(ctx, LoginInput{Email: "nobody@x.edu", Password: "pw123456"})
	_, wrongErr := f.auth.Login(ctx, LoginInput{Email: "ann@x.edu", Password: "wrong-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(unknownErr))
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(wrongErr))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, unknownErr, wrongErr)
}

func TestLoginMissingFields(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.auth.Login(context.Background(), LoginInput{Email: "ann@x.edu"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// racingUsers simulates losing a registration race: the email looks free, but
// the insert hits the unique index.
type racingUsers struct {
	repository.UserRepository
	createErr error
}

func (racingUsers) FindByEmail(context.Context, string) (*model.User, error) { return nil, nil }

func (r racingUsers) Create(context.Context, *model.User) error { return r.createErr }

func TestRegisterMapsRepositoryErrors(t *testing.T) {
	t.Run("duplicate key is a conflict", func(t *testing.T) {
		auth, err := NewAuthService(racingUsers{createErr: repository.ErrDuplicateKey}, 4, nil)
		require.NoError(t, err)
		_, err = auth.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.edu", Password: "pw123456"})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
	t.Run("other failures are storage errors", func(t *testing.T) {
		cause := errors.New("connection refused")
		auth, err := NewAuthService(racingUsers{createErr: cause}, 4, nil)
		require.NoError(t, err)
		_, err = auth.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.edu", Password: "pw123456"})
		assert.ErrorIs(t, err, apperr.ErrStorage)
		assert.ErrorIs(t, err, cause)
	})
}
