package request

type CreateReviewRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
	MovieID string `json:"movieId" validate:"required,uuid"`
	Quality *int   `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
	Fun     *int   `json:"fun,omitempty" validate:"omitempty,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
	Quality *int    `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
	Fun     *int    `json:"fun,omitempty" validate:"omitempty,min=1,max=5"`
}
