package validator

import (
	"planner/internal/application/engine"
	"planner/internal/application/entity"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate - singleton экземпляр валидатора для переиспользования
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Регистрируем кастомные валидаторы
	_ = Validate.RegisterValidation("date_ymd", validateDate)
	_ = Validate.RegisterValidation("date_ymd_optional", validateDateOptional)
	_ = Validate.RegisterValidation("time_hm", validateClock)
	_ = Validate.RegisterValidation("category", validateCategory)
	_ = Validate.RegisterValidation("repeat_type", validateRepeatType)
}

// validateDate проверяет YYYY-MM-DD и существование дня в месяце
func validateDate(fl validator.FieldLevel) bool {
	_, ok := engine.ParseDate(fl.Field().String())
	return ok
}

// validateDateOptional как date_ymd, но разрешает пустую строку
func validateDateOptional(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	return validateDate(fl)
}

// validateClock проверяет HH:MM в пределах суток
func validateClock(fl validator.FieldLevel) bool {
	_, ok := engine.ParseClock(fl.Field().String())
	return ok
}

func validateCategory(fl validator.FieldLevel) bool {
	return entity.IsCategory(fl.Field().String())
}

func validateRepeatType(fl validator.FieldLevel) bool {
	return entity.IsRepeatType(fl.Field().String())
}
