package handler

type registerRequest struct {
	Username     string `json:"username"      validate:"required,min=3"`
	Password     string `json:"password"      validate:"required,min=6"`
	Role         string `json:"role"          validate:"omitempty,oneof=customer admin"`
	SecurityCode string `json:"security_code"`
}

type loginRequest struct {
	Username     string `json:"username"      validate:"required"`
	Password     string `json:"password"      validate:"required"`
	SecurityCode string `json:"security_code"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

// userResponse never carries the password hash or the security code.
type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}
