package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/nagacare/health-admin-api/pkg/jwt"
)

const (
	testSecret    = "test-secret-key-for-unit-tests"
	testSessionID = "5b0d3f9e-7d0c-4bb7-9d5e-3a1c2f4e6a10"
	testUserID    = "00000000-0000-0000-0000-000000000001"
)

func TestGenerateAndParse(t *testing.T) {
	now := time.Now()
	tok, err := pkgjwt.Generate(testSecret, testSessionID, testUserID, "nagacare-test", now, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sid, uid, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, sid)
	assert.Equal(t, testUserID, uid)
}

func TestParse_ExpiredToken(t *testing.T) {
	now := time.Now()
	tok, err := pkgjwt.Generate(testSecret, testSessionID, testUserID, "nagacare-test", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, err := pkgjwt.Generate(testSecret, testSessionID, testUserID, "nagacare-test", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("another-secret-entirely", tok)
	assert.Error(t, err)
}

func TestGenerate_RequiresBinding(t *testing.T) {
	now := time.Now()
	_, err := pkgjwt.Generate(testSecret, "", testUserID, "x", now, now.Add(time.Hour))
	assert.Error(t, err)
	_, err = pkgjwt.Generate("", testSessionID, testUserID, "x", now, now.Add(time.Hour))
	assert.Error(t, err)
}
