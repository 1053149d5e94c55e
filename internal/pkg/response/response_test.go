package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_FillsDefaultMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/gone", func(c fiber.Ctx) error {
		return Error(c, fiber.StatusGone, "", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body SemanticResponse
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, MessageGone, body.Message)
	assert.Equal(t, fiber.StatusGone, body.Status)
}

func TestSuccess_OutOfRangeStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/weird", func(c fiber.Ctx) error {
		return Success(c, 42, "", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/weird", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, MessageCreated, DefaultMessage(fiber.StatusCreated))
	assert.Equal(t, MessageTooManyRequests, DefaultMessage(fiber.StatusTooManyRequests))
	assert.Equal(t, MessageError, DefaultMessage(fiber.StatusTeapot))
}
