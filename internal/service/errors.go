package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInternal           = errors.New("internal failure")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput 校验输入结构体，失败时包装为 ErrValidation
func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on '%s'", ErrValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// internal 将持久层错误包装为 ErrInternal，已分类的错误原样返回
func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s: %w", ErrConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

func isClassified(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInternal) ||
		errors.Is(err, ErrInvalidCredentials)
}
