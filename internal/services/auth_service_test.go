package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// meal is a stand-in for a module table keyed by user_id.
type meal struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;index"`
	Name   string
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &meal{})
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	return NewAuthService(db, cfg, &meal{}), db
}

func TestRegister(t *testing.T) {
	s, _ := newAuthService(t)

	resp, err := s.Register(&dto.RegisterRequest{Email: " Ana@Example.com ", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), sub)

	_, err = s.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "anothersecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Invalid(t *testing.T) {
	s, _ := newAuthService(t)

	_, err := s.Register(&dto.RegisterRequest{Email: "not-an-email", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidRegistration)
	_, err = s.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestLogin(t *testing.T) {
	s, _ := newAuthService(t)
	_, err := s.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = s.Login(&dto.LoginRequest{Email: "ANA@example.com", Password: "supersecret"})
	assert.NoError(t, err)

	_, err = s.Login(&dto.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(&dto.LoginRequest{Email: "bia@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	s, _ := newAuthService(t)
	first, err := s.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "supersecret"})
	require.NoError(t, err)

	second, err := s.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = s.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, s.Logout(&dto.LogoutRequest{RefreshToken: second.RefreshToken}))
	_, err = s.Refresh(&dto.RefreshRequest{RefreshToken: second.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_Expired(t *testing.T) {
	s, _ := newAuthService(t)
	resp, err := s.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "supersecret"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount_WipesOwnedRows(t *testing.T) {
	s, db := newAuthService(t)
	ana, err := s.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "supersecret"})
	require.NoError(t, err)
	bia, err := s.Register(&dto.RegisterRequest{Email: "bia@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&meal{ID: uuid.New(), UserID: ana.User.ID, Name: "Arroz"}).Error)
	require.NoError(t, db.Create(&meal{ID: uuid.New(), UserID: bia.User.ID, Name: "Feijão"}).Error)

	assert.ErrorIs(t, s.DeleteAccount(ana.User.ID, ""), ErrPasswordRequired)
	assert.ErrorIs(t, s.DeleteAccount(ana.User.ID, "wrong-password"), ErrInvalidCredentials)
	require.NoError(t, s.DeleteAccount(ana.User.ID, "supersecret"))

	_, err = s.GetUser(ana.User.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var meals []meal
	require.NoError(t, db.Find(&meals).Error)
	require.Len(t, meals, 1)
	assert.Equal(t, bia.User.ID, meals[0].UserID)

	var tokens int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", ana.User.ID).Count(&tokens).Error)
	assert.Zero(t, tokens)

	assert.ErrorIs(t, s.DeleteAccount(uuid.New(), "supersecret"), ErrUserNotFound)
}
