package member

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/michezo/core"
)

var (
	memberRoleTag  = "memberrole"
	memberRoleText = "role must be one of: player, coach, staff"

	bloodTypeTag  = "bloodtype"
	bloodTypeText = "invalid blood type"
)

func init() {
	_ = core.Validate.RegisterValidation(memberRoleTag, memberRoleValidation)
	core.RegisterCustomTranslation(memberRoleTag, memberRoleText)

	_ = core.Validate.RegisterValidation(bloodTypeTag, bloodTypeValidation)
	core.RegisterCustomTranslation(bloodTypeTag, bloodTypeText)
}

func memberRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, known := range MemberRoles {
		if role == known {
			return true
		}
	}
	return false
}

func bloodTypeValidation(fl validator.FieldLevel) bool {
	bt := fl.Field().String()
	for _, known := range BloodTypes {
		if bt == known {
			return true
		}
	}
	return false
}
