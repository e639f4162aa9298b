package manifest

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/zendwasm/zendini/domain/entities"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("ini_permission", func(fl validator.FieldLevel) bool {
		_, err := entities.ParsePermission(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the manifest's struct tags.
func Validate(m *entities.Manifest) error {
	if m == nil {
		return fmt.Errorf("nil manifest")
	}
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	return nil
}
