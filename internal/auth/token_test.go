package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	user := &model.User{ID: 7, Username: "armand", Role: model.UserRoleAdmin}

	token, err := manager.Issue(user)
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "armand", claims.Username)
	assert.Equal(t, model.UserRoleAdmin, claims.Role)
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(&model.User{ID: 1, Username: "u"})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.Issue(&model.User{ID: 1, Username: "u"})
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	_, err := manager.Parse("not.a.token")
	assert.Error(t, err)
}
