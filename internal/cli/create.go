package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/managed"
	"github.com/sheabunge/functionality/internal/system"
)

const maxPasswordAttempts = 3

// Target names accepted by Targets
const (
	TargetFunctions = "functions"
	TargetStyles    = "styles"
	TargetAll       = "all"
)

// ErrStylesDisabled is returned when the stylesheet is requested but styles
// are not enabled
var ErrStylesDisabled = errors.New("styles are not enabled; set enable_styles or uncomment the opt-in line in the functions file")

// Targets resolves a target name to the managed files it covers
func (c *Context) Targets(name string) ([]managed.Managed, error) {
	switch name {
	case TargetFunctions, "":
		return []managed.Managed{c.Controller.Functions()}, nil
	case TargetStyles:
		if c.Controller.Styles() == nil {
			return nil, ErrStylesDisabled
		}
		return []managed.Managed{c.Controller.Styles()}, nil
	case TargetAll:
		return c.Controller.Files(), nil
	default:
		return nil, fmt.Errorf("unknown target %q", name)
	}
}

// CreateFile creates m. Unless silent, a directory that needs elevated
// access leads to a password prompt, retried a few times on a wrong
// password.
func (c *Context) CreateFile(ctx context.Context, m managed.Managed, silent bool) error {
	err := m.CreateFile(ctx, nil)
	if silent || !errors.Is(err, system.ErrCredentialsRequired) {
		return err
	}

	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		if attempt == 0 {
			c.UI.Warning(c.Translator.T(i18n.CredentialsPrompt, m.RelativePath()))
		} else {
			c.UI.Error(c.Translator.T(i18n.CredentialsInvalid))
		}

		password, perr := c.AskPassword(c.Translator.T(i18n.Password))
		if perr != nil {
			return perr
		}

		err = m.CreateFile(ctx, &system.Credentials{Password: password})
		if !errors.Is(err, system.ErrInvalidCredentials) {
			return err
		}
	}

	return err
}

// Edit makes sure m exists and prints where to edit it
func (c *Context) Edit(ctx context.Context, m managed.Managed) error {
	if err := c.CreateFile(ctx, m, false); err != nil {
		return fmt.Errorf("failed to create %s: %w", m.RelativePath(), err)
	}

	c.UI.Successf("%s is ready", m.RelativePath())
	c.UI.KeyValues([][2]string{
		{"File", m.FullPath()},
		{"Editor", m.EditURL()},
	})
	return nil
}
