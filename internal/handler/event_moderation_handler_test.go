package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/lifecycle"
	"github.com/fairhub-io/fairhub-api/internal/service"
	"github.com/fairhub-io/fairhub-api/internal/utils"
)

type mockModerationService struct {
	result dto.EventModerationResult
	err    error
	claims service.SessionClaims
	meta   service.RequestMeta
}

func (m *mockModerationService) Moderate(_ context.Context, claims service.SessionClaims, _ uint, _ dto.EventModerationRequest, meta service.RequestMeta) (dto.EventModerationResult, error) {
	m.claims = claims
	m.meta = meta
	return m.result, m.err
}

func newModerationApp(svc service.EventModerationService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "")
		return c.Next()
	})
	NewEventModerationHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/admin/events"))
	return app
}

func moderationRequest(eventID string, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/admin/events/%s/moderate", eventID),
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()
	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestModerateEndpointApproves(t *testing.T) {
	svc := &mockModerationService{result: dto.EventModerationResult{
		Event:   dto.EventResponse{ID: 42, Status: "PUBLISHED", IsPublic: true},
		Message: `Event "Spring Expo" approved and published`,
	}}
	app := newModerationApp(svc)

	resp, err := app.Test(moderationRequest("42", `{"action":"approve"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.True(t, body.Success)
	require.Contains(t, body.Message, "approved and published")
	require.Equal(t, uint(1), svc.claims.SubjectID)
	require.NotEmpty(t, svc.meta.IPAddress)
}

func TestModerateEndpointRejectsInvalidEventID(t *testing.T) {
	app := newModerationApp(&mockModerationService{})

	resp, err := app.Test(moderationRequest("0", `{"action":"approve"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestModerateEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"unauthenticated", service.ErrUnauthenticated, fiber.StatusUnauthorized},
		{"forbidden", service.ErrActorForbidden, fiber.StatusForbidden},
		{"actor missing", service.ErrActorNotFound, fiber.StatusNotFound},
		{"event missing", service.ErrEventNotFound, fiber.StatusNotFound},
		{"unknown action", lifecycle.ErrUnknownAction, fiber.StatusBadRequest},
		{"reason required", lifecycle.ErrReasonRequired, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newModerationApp(&mockModerationService{err: tc.serviceErr})

			resp, err := app.Test(moderationRequest("42", `{"action":"approve"}`))
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			require.False(t, decodeResponse(t, resp).Success)
		})
	}
}

func TestModerateEndpointAuditFailure(t *testing.T) {
	app := newModerationApp(&mockModerationService{
		err: fmt.Errorf("%w: connection refused", service.ErrAuditFailed),
	})

	resp, err := app.Test(moderationRequest("42", `{"action":"approve"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.Equal(t, "moderation applied but not audited", body.Message)
	require.NotNil(t, body.Details)
}
