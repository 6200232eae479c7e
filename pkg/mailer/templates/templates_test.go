package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civica-app/civica-backend/config"
)

func testConfig() *config.Config {
	return &config.Config{AppName: "Civica", CompanyName: "Civica", DeleteAccountURL: "https://civica.test/delete"}
}

func TestRenderVerificationCode(t *testing.T) {
	data := NewCodeData(testConfig(), VerificationCode, "neo", "neo@example.com", "042117", time.Now().Add(10*time.Minute))

	subject, text, html, err := Render(Universal, data)
	require.NoError(t, err)
	assert.Equal(t, "Confirm your Civica account", subject)
	assert.Contains(t, text, "042117")
	assert.Contains(t, html, "042 117")
	assert.Contains(t, html, "neo@example.com")
}

func TestRenderAccountDeletionLinksPage(t *testing.T) {
	data := NewCodeData(testConfig(), AccountDeletion, "", "neo@example.com", "111222", time.Now().Add(time.Minute))

	subject, text, html, err := Render(Universal, data)
	require.NoError(t, err)
	assert.Equal(t, "Confirm the deletion of your Civica account", subject)
	assert.Contains(t, text, "Hello there")
	assert.Contains(t, html, "https://civica.test/delete")
}

func TestRenderWelcomeHasNoCode(t *testing.T) {
	subject, text, _, err := Render(Universal, NewWelcomeData(testConfig(), "neo", "neo@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Civica", subject)
	assert.NotContains(t, text, "expires")
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 3, defaultFn("x", 3))
}
