package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/copter/internal/auth"
	"github.com/mmynk/copter/pkg/api"
)

// AuthService exchanges the integration key for user tokens. The platform
// adapter holds the key and asks for one token per user it acts for.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// NewAuthServiceHandler mounts the auth procedures. It must not sit behind RequireAuth.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(api.IssueTokenProcedure, connect.NewUnaryHandler(api.IssueTokenProcedure, svc.IssueToken, opts...))
	return "/" + api.AuthServiceName + "/", mux
}

// IssueToken returns a token acting as the requested user.
func (s *AuthService) IssueToken(ctx context.Context, req *connect.Request[api.IssueTokenRequest]) (*connect.Response[api.IssueTokenResponse], error) {
	userID := strings.TrimSpace(req.Msg.UserID)
	if userID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("user_id is required"))
	}

	if err := s.authenticator.Authenticate(ctx, req.Msg.IntegrationKey); err != nil {
		s.logger.Warn("Token request rejected", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, expiresAt, err := s.jwtManager.Generate(userID)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Token issued", "user_id", userID, "expires_at", expiresAt)
	return connect.NewResponse(&api.IssueTokenResponse{Token: token, ExpiresAt: expiresAt}), nil
}
