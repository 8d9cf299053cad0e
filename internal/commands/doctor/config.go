package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/textsnap/internal/core/config"
)

// ConfigCheck validates the configuration file.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config loaded",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	if _, err := os.Stat(c.configPath); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config file",
			Status: StatusPass,
			Detail: "not found, using defaults",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config file",
			Status: StatusPass,
			Detail: c.configPath,
		})
	}

	err := c.config.ValidateDeep(c.configPath)
	if err == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config valid",
			Status: StatusPass,
		})
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		fieldErrs = criterio.FieldErrors{{Err: err}}
	}
	for _, fe := range fieldErrs {
		label := fe.Field
		if label == "" {
			label = "validation"
		}
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusFail,
			Detail: fe.Err.Error(),
		})
	}

	return result
}
