package dto

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	UserName  string `json:"user_name,omitempty" doc:"Display name"`
	UserEmail string `json:"user_email,omitempty" doc:"Email address, unique per account"`
	Password  string `json:"password,omitempty" doc:"Password (6-1024 chars)"`
}

// SignupResponse is returned after a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	UserEmail string `json:"user_email,omitempty" doc:"Email address"`
	Password  string `json:"password,omitempty" doc:"Password"`
}

// LoginResponse carries the identifiers the client keeps after login.
type LoginResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}
