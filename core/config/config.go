package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	ExecLogName       = "exec.log"
)

// Configuration holds the user-tunable shell settings. All of them have
// working defaults; the shell runs without any configuration on disk.
type Configuration struct {
	configFs afero.Fs

	// Prompt is written before each command line is read.
	Prompt string `json:"prompt" validate:"required"`

	// QuitCommand ends the session when it is the first token of a stage.
	QuitCommand string `json:"quit_command" validate:"required"`

	// HistoryFile enables persistent line history when non-empty.
	HistoryFile string `json:"history_file"`

	// LogExec records executed pipelines to the exec log as JSON lines.
	LogExec bool `json:"log_exec"`
}

// Default returns the configuration used when no config file exists.
func Default() *Configuration {
	return &Configuration{
		configFs:    afero.NewBasePathFs(afero.NewOsFs(), "."),
		Prompt:      "$ ",
		QuitCommand: "quit",
	}
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenExecLog opens the execution log in an append only state.
func (c *Configuration) OpenExecLog() (afero.File, error) {
	return c.fs().OpenFile(ExecLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadExecLog opens the execution log for reading.
func (c *Configuration) ReadExecLog() (afero.File, error) {
	return c.fs().OpenFile(ExecLogName, os.O_RDONLY, 0600)
}
