package doctor

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/core/config"
)

// EnvironmentCheck reports external programs and directories textsnap uses.
type EnvironmentCheck struct {
	config *config.Config

	// clipboardUnsupported is overridable in tests.
	clipboardUnsupported bool
}

// NewEnvironmentCheck creates a new environment check.
func NewEnvironmentCheck(cfg *config.Config) *EnvironmentCheck {
	return &EnvironmentCheck{config: cfg, clipboardUnsupported: clipboard.Unsupported}
}

func (c *EnvironmentCheck) Name() string {
	return "Environment"
}

func (c *EnvironmentCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	for _, w := range c.config.Warnings() {
		result.Items = append(result.Items, CheckItem{
			Label:  w.Category + " (" + w.Item + ")",
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "Recognizer",
		Status: StatusPass,
		Detail: c.config.Recognizer.Backend,
	})

	if c.clipboardUnsupported {
		result.Items = append(result.Items, CheckItem{
			Label:  "Clipboard",
			Status: StatusWarn,
			Detail: "no clipboard utility found (install xclip, xsel or wl-clipboard); copy will fail",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Clipboard",
			Status: StatusPass,
		})
	}

	return result
}

// PermissionsCheck reports stored camera and media library decisions.
type PermissionsCheck struct {
	perms *capture.Permissions
}

// NewPermissionsCheck creates a new permissions check.
func NewPermissionsCheck(perms *capture.Permissions) *PermissionsCheck {
	return &PermissionsCheck{perms: perms}
}

func (c *PermissionsCheck) Name() string {
	return "Permissions"
}

func (c *PermissionsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	states, err := c.perms.All(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Permissions",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	for _, st := range states {
		item := CheckItem{Label: st.Permission.Label()}
		switch st.Status {
		case capture.StatusGranted:
			item.Status = StatusPass
			item.Detail = "granted"
		case capture.StatusDenied:
			if !st.Permission.AsksOnce() {
				item.Status = StatusPass
				item.Detail = "denied, asked again on next use"
				break
			}
			item.Status = StatusWarn
			item.Detail = "denied (run 'textsnap permissions grant " + string(st.Permission) + "')"
		default:
			item.Status = StatusPass
			item.Detail = "asked on first use"
		}
		result.Items = append(result.Items, item)
	}

	return result
}
