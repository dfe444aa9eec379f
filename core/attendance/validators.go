package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/michezo/core"
)

var (
	statusTag  = "attstatus"
	statusText = "status must be one of: present, absent, late"
)

func init() {
	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, known := range Statuses {
		if status == known {
			return true
		}
	}
	return false
}
