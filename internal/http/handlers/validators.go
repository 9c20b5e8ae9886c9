package handlers

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the decimal rules used by the listing
// payloads: prices and bathroom counts travel as strings so they validate
// by parsed value, not string shape.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)

		if !ok {
			return
		}

		_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
			_, err := strconv.ParseFloat(fl.Field().String(), 64)
			return err == nil
		})

		_ = v.RegisterValidation("decimalgt", func(fl validator.FieldLevel) bool {
			val, err := strconv.ParseFloat(fl.Field().String(), 64)
			if err != nil {
				return false
			}
			bound, err := strconv.ParseFloat(fl.Param(), 64)
			if err != nil {
				return false
			}
			return val > bound
		})

		_ = v.RegisterValidation("decimalgte", func(fl validator.FieldLevel) bool {
			val, err := strconv.ParseFloat(fl.Field().String(), 64)
			if err != nil {
				return false
			}
			bound, err := strconv.ParseFloat(fl.Param(), 64)
			if err != nil {
				return false
			}
			return val >= bound
		})
	})
}
