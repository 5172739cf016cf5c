package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/signup",
		Summary:       "Register new user",
		Description:   "Creates an account. Emails are unique regardless of case.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusOK,
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID:   "login",
		Method:        http.MethodPost,
		Path:          "/login",
		Summary:       "User login",
		Description:   "Checks credentials and returns the user's id and display name",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusOK,
	}, s.handleLogin)
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body dto.SignupRequest
}

// SignupOutput wraps the signup response for Huma.
type SignupOutput struct {
	Body dto.SignupResponse
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body dto.LoginRequest
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body dto.LoginResponse
}

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	user, err := s.services.Auth.Signup(ctx, service.SignupRequest{
		UserName:  input.Body.UserName,
		UserEmail: input.Body.UserEmail,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, s.fail("signup", err)
	}

	return &SignupOutput{Body: dto.SignupResponse{
		Message: "User registered successfully!",
		UserID:  user.ID,
	}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	identity, err := s.services.Auth.Login(ctx, service.LoginRequest{
		UserEmail: input.Body.UserEmail,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, s.fail("login", err)
	}

	return &LoginOutput{Body: dto.LoginResponse{
		Message:  "Login successful!",
		UserID:   identity.UserID,
		UserName: identity.UserName,
	}}, nil
}
