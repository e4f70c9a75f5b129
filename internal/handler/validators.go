package handler

import (
	"fmt"
	"sync"

	"bms/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator:
//
//	status  Active | Inactive
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("status", validateStatus)
	})
	return err
}

func validateStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == model.StatusActive || s == model.StatusInactive
}
