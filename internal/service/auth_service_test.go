package service

import (
	"context"
	"testing"
	"time"

	"bms/internal/access"
	"bms/internal/model"
	"bms/internal/session"
	"bms/internal/token"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authFixture struct {
	users   *mockUserRepository
	roles   *mockRoleRepository
	audit   *mockAuditRepository
	issuer  *token.Issuer
	revoked session.Store
	svc     AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:   &mockUserRepository{},
		roles:   &mockRoleRepository{},
		audit:   acceptingAudit(),
		issuer:  token.NewIssuer("test-secret", time.Hour),
		revoked: session.NewMemoryStore(),
	}
	f.svc = NewAuthService(f.users, f.roles, f.audit, &fakeTx{}, f.issuer, f.revoked, string(access.RoleViewer))
	return f
}

func existingUser(t *testing.T, password, status string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:       uuid.New(),
		UserName: "mai",
		Email:    "mai@example.com",
		Password: string(hashed),
		Status:   status,
		Role:     &model.Role{ID: uuid.New(), Name: string(access.RoleManager)},
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email: "a@b.c", UserName: "a", FullName: "A", Password: "secret1", ConfirmPassword: "secret2",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_AssignsDefaultRole(t *testing.T) {
	f := newAuthFixture()
	viewer := &model.Role{ID: uuid.New(), Name: string(access.RoleViewer)}
	f.users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	f.users.On("FindByUserName", mock.Anything, "newbie").Return(nil, gorm.ErrRecordNotFound)
	f.roles.On("FindByName", mock.Anything, string(access.RoleViewer)).Return(viewer, nil)
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	res, err := f.svc.Register(context.Background(), RegisterRequest{
		Email: " New@Example.com ", UserName: "newbie", FullName: "New Bie", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.Email)
	assert.Equal(t, string(access.RoleViewer), res.RoleName)
	assert.True(t, res.Permissions.Read)
	assert.False(t, res.Permissions.Create)

	created := f.users.Calls[len(f.users.Calls)-1].Arguments.Get(1).(*model.User)
	assert.NotEqual(t, "secret1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindByEmail", mock.Anything, "mai@example.com").Return(&model.User{}, nil)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email: "mai@example.com", UserName: "mai", FullName: "Mai", Password: "secret1", ConfirmPassword: "secret1",
	})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	user := existingUser(t, "secret1", model.StatusActive)
	f.users.On("FindByEmail", mock.Anything, "mai@example.com").Return(user, nil)

	res, err := f.svc.Login(context.Background(), LoginRequest{Email: "MAI@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, string(access.RoleManager), res.Role)
	assert.Equal(t, access.Resolve(string(access.RoleManager)), res.Permissions)

	claims, err := f.issuer.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, string(access.RoleManager), claims.EffectiveRole())
}

func TestLogin_Failures(t *testing.T) {
	f := newAuthFixture()
	active := existingUser(t, "secret1", model.StatusActive)
	inactive := existingUser(t, "secret1", model.StatusInactive)
	f.users.On("FindByEmail", mock.Anything, "mai@example.com").Return(active, nil)
	f.users.On("FindByEmail", mock.Anything, "off@example.com").Return(inactive, nil)
	f.users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "mai@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = f.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = f.svc.Login(context.Background(), LoginRequest{Email: "off@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newAuthFixture()
	_, claims, err := f.issuer.Issue(uuid.New(), string(access.RoleStaff), "s@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), claims))

	revoked, err := f.revoked.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.svc.Logout(context.Background(), &token.Claims{}), apperror.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	f := newAuthFixture()
	user := existingUser(t, "secret1", model.StatusActive)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	res, err := f.svc.Me(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Email, res.Email)

	_, err = f.svc.Me(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
