package dto

// RegisterRequest HTTP层注册请求
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100" example:"reader@example.com"`
	Password string `json:"password" validate:"required,min=8,max=64" example:"passw0rd"`
	Name     string `json:"name" validate:"required,min=2,max=100" example:"Reader"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"reader@example.com"`
	Password string `json:"password" validate:"required" example:"passw0rd"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// PrincipalResponse 当前登录用户（来自Token声明）
type PrincipalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ParseRegisterRequest 解析并校验注册请求
func ParseRegisterRequest(body []byte) (*RegisterRequest, error) {
	var r RegisterRequest
	if err := Decode(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ParseLoginRequest 解析并校验登录请求
func ParseLoginRequest(body []byte) (*LoginRequest, error) {
	var r LoginRequest
	if err := Decode(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ParseRefreshRequest 解析并校验刷新请求
func ParseRefreshRequest(body []byte) (*RefreshRequest, error) {
	var r RefreshRequest
	if err := Decode(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
