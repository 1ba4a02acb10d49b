package dto

import (
	"github.com/Temutjin2k/miletracker/pkg/validator"
)

type LoginRequest struct {
	Driver string `json:"driver"`
	PIN    string `json:"pin"`
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(validator.NotBlank(req.Driver), "driver", "must be provided")
	v.Check(validator.MaxChars(req.Driver, 100), "driver", "must not be more than 100 characters long")
	v.Check(req.PIN != "", "pin", "must be provided")
}
