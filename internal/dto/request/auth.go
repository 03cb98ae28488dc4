package request

type SignupRequest struct {
	Email     string  `json:"email" validate:"required,email,max=254"`
	Password  string  `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
	AdminCode string  `json:"adminCode,omitempty"`
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
