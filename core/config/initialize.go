package config

import (
	"log"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory at path.
// An existing configuration file is left untouched.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return initializeFs(afero.NewBasePathFs(afero.NewOsFs(), path), logger)
}

func initializeFs(configFs afero.Fs, logger *log.Logger) (*Configuration, error) {
	exists, err := afero.Exists(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	if exists {
		logger.Printf("%s already exists, keeping it", ConfigurationName)
	} else {
		logger.Printf("Writing %s", ConfigurationName)
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return loadFs(configFs)
}
