package dto

import (
	"github.com/baechuer/notepad-service/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"notblank,max=255"`
	Phone    string `json:"phone" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	return validateStruct(r, func(fields []string) error {
		return domain.ErrMissingFields(fields...)
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validateStruct(r, func(fields []string) error {
		return domain.ErrMissingFields(fields...)
	})
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
