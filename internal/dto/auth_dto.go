package dto

// LoginRequest carries the credentials for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse returns the signed JWT and user data.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Rol      string `json:"rol"`
}

// RegistrarUsuarioRequest creates a new system user (admin only).
type RegistrarUsuarioRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Rol      string `json:"rol" validate:"required,oneof=administrador cajero padre"`
}
