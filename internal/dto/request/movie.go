package request

type MovieRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Synopsis string `json:"synopsis" validate:"max=5000"`
}

type MovieUpdateRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Synopsis *string `json:"synopsis,omitempty" validate:"omitempty,max=5000"`
}
