package owner

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveWith(t *testing.T, sub, requested string) (string, error) {
	t.Helper()
	var (
		got    string
		gotErr error
	)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if sub != "" {
			c.Locals("user", &jwt.Token{Valid: true, Claims: jwt.MapClaims{"sub": sub}})
		}
		got, gotErr = Resolve(c, requested)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	return got, gotErr
}

func TestResolve(t *testing.T) {
	got, err := resolveWith(t, "", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got)

	got, err = resolveWith(t, "a@x.io", "")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got)

	got, err = resolveWith(t, "a@x.io", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got)

	_, err = resolveWith(t, "a@x.io", "b@x.io")
	assert.ErrorIs(t, err, ErrForbidden)
}
