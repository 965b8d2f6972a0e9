package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/camai/camai/internal/config"
)

// WritableDirCheck verifies the console can create files in Dir.
type WritableDirCheck struct {
	ID    string // check name, e.g. "log_dir"
	Label string // e.g. "Log directory"
	Dir   string
	Hint  string // config key to change, shown on failure
}

func (c *WritableDirCheck) Name() string     { return c.ID }
func (c *WritableDirCheck) Category() string { return CategoryFiles }

func (c *WritableDirCheck) Run(ctx context.Context) CheckResult {
	dir := config.ExpandTilde(c.Dir)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s %s does not exist yet", c.Label, dir),
			Suggestion: "Run 'camai doctor --fix' to create it",
			Fixable:    true,
		}
	}
	if err != nil {
		return c.fail(dir, err)
	}
	if !info.IsDir() {
		return c.fail(dir, fmt.Errorf("not a directory"))
	}

	f, err := os.CreateTemp(dir, ".camai-doctor-*")
	if err != nil {
		return c.fail(dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s %s is writable", c.Label, dir),
	}
}

func (c *WritableDirCheck) fail(dir string, err error) CheckResult {
	return CheckResult{
		Status:     StatusFail,
		Message:    fmt.Sprintf("%s %s is not writable: %v", c.Label, dir, err),
		Suggestion: fmt.Sprintf("Fix the permissions or point %s somewhere else", c.Hint),
	}
}

// Fix creates the directory.
func (c *WritableDirCheck) Fix() error {
	return os.MkdirAll(config.ExpandTilde(c.Dir), 0o755)
}

// Options selects what Collect checks.
type Options struct {
	ConfigPath string
	Config     *config.Config
	Client     Backend // nil skips the backend checks
}

// Collect returns the full doctor check list for cfg.
func Collect(opts Options) []Check {
	checks := []Check{
		&ConfigFileCheck{ConfigPath: opts.ConfigPath},
		&ConfigSchemaCheck{ConfigPath: opts.ConfigPath},
	}

	var timeout = defaultCheckTimeout
	if opts.Config != nil && opts.Config.API.Timeout > 0 && opts.Config.API.Timeout < timeout {
		timeout = opts.Config.API.Timeout
	}
	if opts.Client != nil {
		checks = append(checks,
			&BackendHealthCheck{Client: opts.Client, Timeout: timeout},
			&BackendDataCheck{Client: opts.Client, Timeout: timeout},
		)
	}

	if opts.Config != nil {
		checks = append(checks,
			&WritableDirCheck{ID: "log_dir", Label: "Log directory", Dir: opts.Config.Logging.Dir, Hint: "logging.dir"},
			&WritableDirCheck{ID: "bridge_dir", Label: "Bridge directory", Dir: opts.Config.Bridge.Dir, Hint: "bridge.dir"},
		)
	}
	return checks
}
