package dto

type RegisterRequestDTO struct {
	Login    string `json:"login" example:"treasurer"`
	Password string `json:"password" example:"s3cret-pass"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" example:"treasurer"`
	Password string `json:"password" example:"s3cret-pass"`
}

type OperatorResponseDTO struct {
	ID    int    `json:"id" example:"1"`
	Login string `json:"login" example:"treasurer"`
}
