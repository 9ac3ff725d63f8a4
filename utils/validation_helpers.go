package utils

import (
	errors "github.com/zgalor/weberr"
)

type ValidateRule func() error

func Validate(rules []ValidateRule) error {
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

func ValidateStringFieldNotEmpty(param *string, name string) ValidateRule {
	return func() error {
		if param == nil {
			return errors.BadRequest.UserErrorf("Missing field '%s'", name)
		}
		if len(*param) == 0 {
			return errors.BadRequest.UserErrorf("Field '%s' is empty", name)
		}
		return nil
	}
}

func Contains[T comparable](slice []T, element T) bool {
	for _, sliceElement := range slice {
		if sliceElement == element {
			return true
		}
	}

	return false
}
