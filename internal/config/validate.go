package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrPrimaryAsset reports an asset list without exactly one primary item.
var ErrPrimaryAsset = errors.New("assets need exactly one primary item")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateAssets, AssetsConfig{})
}

// validateAssets enforces the single primary asset and unique names.
func validateAssets(sl validator.StructLevel) {
	assets := sl.Current().Interface().(AssetsConfig)

	primaries := 0
	seen := make(map[string]bool, len(assets.Items))
	for _, item := range assets.Items {
		if item.Primary {
			primaries++
		}
		if seen[item.Name] {
			sl.ReportError(assets.Items, "Items", "items", "unique_name", item.Name)
		}
		seen[item.Name] = true
	}
	if primaries != 1 {
		sl.ReportError(assets.Items, "Items", "items", "one_primary", "")
	}
}

// Validate checks construction-time invariants: positive duration and frame
// rate, at least two waypoints, exactly one primary asset.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "one_primary" {
				return fmt.Errorf("invalid config: %w", ErrPrimaryAsset)
			}
		}
	}
	return fmt.Errorf("invalid config: %w", err)
}
