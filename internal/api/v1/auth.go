package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cashbookhq/cashbook/internal/auth"
	"github.com/cashbookhq/cashbook/internal/server/middleware"
)

type SignupInput struct {
	Body struct {
		Username string `json:"username,omitempty" maxLength:"255" doc:"Login name"`
		Password string `json:"password,omitempty" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type SignupOutput struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		UserID  int64  `json:"user_id"`
	}
}

type LoginInput struct {
	Body struct {
		Username string `json:"username,omitempty" maxLength:"255" doc:"Login name"`
		Password string `json:"password,omitempty" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type SessionOutput struct {
	Body struct {
		Success  bool   `json:"success"`
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
		Token    string `json:"token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct{}

type ValidateInput struct{}

type ValidateOutput struct {
	Body struct {
		Success bool  `json:"success"`
		UserID  int64 `json:"user_id"`
	}
}

type LogoutInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token to invalidate"`
}

type MessageOutput struct {
	Body MessageEnvelope
}

type ResetPasswordInput struct {
	Body struct {
		NewPassword string `json:"new_password,omitempty" maxLength:"128" doc:"Replacement password"` //nolint:gosec // G117: credential DTO
	}
}

// RegisterAuthRoutes registers the unauthenticated auth endpoints.
func RegisterAuthRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/auth/signup",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
		if input.Body.Username == "" || input.Body.Password == "" {
			return nil, huma.Error400BadRequest("Username and password are required")
		}

		user, err := authSvc.Signup(ctx, input.Body.Username, input.Body.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrWeakPassword):
				return nil, huma.Error400BadRequest("Password must be at least 8 characters")
			case errors.Is(err, auth.ErrUserAlreadyExists):
				return nil, huma.Error409Conflict("Username already exists")
			}
			return nil, huma.Error500InternalServerError("Failed to register user")
		}

		out := &SignupOutput{}
		out.Body.Success = true
		out.Body.Message = "User registered successfully"
		out.Body.UserID = user.ID
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with username and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
		if input.Body.Username == "" || input.Body.Password == "" {
			return nil, huma.Error400BadRequest("Username and password are required")
		}

		user, tok, err := authSvc.Login(ctx, input.Body.Username, input.Body.Password)
		if err != nil {
			// Unknown user and wrong password are indistinguishable.
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("Invalid username or password")
			}
			return nil, huma.Error500InternalServerError("Failed to log in")
		}

		return sessionOutput(user.ID, user.Username, tok), nil
	})
}

// RegisterSessionRoutes registers the auth endpoints that operate on an
// already-resolved identity.
func RegisterSessionRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Issue a fresh token for the current user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *RefreshInput) (*SessionOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("Authentication required")
		}
		// Identities asserted without a token carry no username and cannot
		// be refreshed into one.
		if _, ok := middleware.UsernameFromContext(ctx); !ok {
			return nil, huma.Error401Unauthorized("Invalid user data")
		}

		user, tok, err := authSvc.Refresh(ctx, userID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				return nil, huma.Error401Unauthorized("User not found")
			}
			return nil, huma.Error500InternalServerError("Failed to refresh token")
		}

		return sessionOutput(user.ID, user.Username, tok), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "validate-token",
		Method:      http.MethodGet,
		Path:        "/auth/validate",
		Summary:     "Report whether the request carries a valid identity",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *ValidateInput) (*ValidateOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("Authentication required")
		}

		out := &ValidateOutput{}
		out.Body.Success = true
		out.Body.UserID = userID
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Invalidate the presented token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
		// Logout never fails from the client's perspective; a token that
		// cannot be revoked is already unusable or expires on its own.
		if tok := bearerToken(input.Authorization); tok != "" {
			if err := authSvc.Logout(ctx, tok); err != nil {
				return nil, huma.Error500InternalServerError("Failed to log out")
			}
		}

		return &MessageOutput{Body: MessageEnvelope{Success: true, Message: "Logged out successfully"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reset-password",
		Method:      http.MethodPost,
		Path:        "/auth/reset-password",
		Summary:     "Change the current user's password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *ResetPasswordInput) (*MessageOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("Authentication required")
		}

		err := authSvc.ResetPassword(ctx, userID, input.Body.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrWeakPassword):
				return nil, huma.Error400BadRequest("Password must be at least 8 characters")
			case errors.Is(err, auth.ErrUserNotFound):
				return nil, huma.Error401Unauthorized("User not found")
			}
			return nil, huma.Error500InternalServerError("Failed to update password")
		}

		return &MessageOutput{Body: MessageEnvelope{Success: true, Message: "Password updated successfully"}}, nil
	})
}

func sessionOutput(userID int64, username, tok string) *SessionOutput {
	out := &SessionOutput{}
	out.Body.Success = true
	out.Body.UserID = userID
	out.Body.Username = username
	out.Body.Token = tok
	return out
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}
