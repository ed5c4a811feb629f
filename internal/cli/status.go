package cli

import (
	"fmt"

	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/managed"
)

// FileStatus describes one managed file
type FileStatus struct {
	Label        string
	RelativePath string
	FullPath     string
	EditURL      string
	Exists       bool
	// Plugin is false for files that are not activated as plugins
	Plugin bool
	Active bool
}

// Status inspects every managed file
func (c *Context) Status() ([]FileStatus, error) {
	functions := c.Controller.Functions()

	st, err := fileStatus(c.Translator.T(i18n.EditFunctions), &functions.File)
	if err != nil {
		return nil, err
	}
	st.Plugin = true
	st.Active, err = c.Plugins.IsActive(functions.RelativePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin state: %w", err)
	}
	out := []FileStatus{st}

	if styles := c.Controller.Styles(); styles != nil {
		st, err := fileStatus(c.Translator.T(i18n.EditStyles), &styles.File)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}

	return out, nil
}

func fileStatus(label string, f *managed.File) (FileStatus, error) {
	exists, err := f.Exists()
	if err != nil {
		return FileStatus{}, fmt.Errorf("failed to check %s: %w", f.FullPath(), err)
	}
	return FileStatus{
		Label:        label,
		RelativePath: f.RelativePath(),
		FullPath:     f.FullPath(),
		EditURL:      f.EditURL(),
		Exists:       exists,
	}, nil
}

// PrintStatus prints the status report
func (c *Context) PrintStatus() error {
	files, err := c.Status()
	if err != nil {
		return err
	}

	c.UI.Header("Functionality Status")

	for _, f := range files {
		state := "missing"
		if f.Exists {
			state = "present"
		}
		pairs := [][2]string{
			{"File", f.FullPath},
			{"State", state},
		}
		if f.Plugin {
			active := "no"
			if f.Active {
				active = "yes"
			}
			pairs = append(pairs, [2]string{"Active", active})
		}
		pairs = append(pairs, [2]string{"Editor", f.EditURL})

		c.UI.Bold(f.Label)
		c.UI.KeyValues(pairs)
		c.UI.Print("")
	}

	c.UI.Separator()
	if c.Controller.StylesEnabled() {
		c.UI.Info("Styles: enabled")
	} else {
		c.UI.Info("Styles: disabled")
	}
	c.UI.Infof("Configuration file: %s", c.Config.FilePath())
	c.UI.Infof("Plugin state directory: %s", c.Plugins.Dir())

	return nil
}
