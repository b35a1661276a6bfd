package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/copter/internal/auth"
	"github.com/mmynk/copter/pkg/api"
)

type ping struct{}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", time.Hour)
	token, _, err := jwtManager.Generate("U42")
	require.NoError(t, err)

	var seen string
	next := connect.UnaryFunc(func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetUserID(ctx)
		return connect.NewResponse(&ping{}), nil
	})
	handler := RequireAuth(jwtManager)(next)

	tests := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"valid token", "Bearer " + token, true},
		{"missing header", "", false},
		{"wrong scheme", "Basic " + token, false},
		{"empty bearer", "Bearer ", false},
		{"bad token", "Bearer nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := handler(context.Background(), req)
			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, "U42", seen)
				return
			}
			require.Error(t, err)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
			assert.Empty(t, seen)
		})
	}
}

func TestGetUserID(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
	assert.Equal(t, "U1", GetUserID(WithUserID(context.Background(), "U1")))
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	denied := connect.NewError(connect.CodeFailedPrecondition, errors.New("already paid"))
	denied.Meta().Set(api.DenialReasonHeader, "already_paid")

	handler := LoggingInterceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, denied
	})
	_, err := handler(context.Background(), connect.NewRequest(&ping{}))
	assert.Equal(t, "already_paid", api.DenialReason(err))
}
