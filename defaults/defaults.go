// Package defaults holds the configuration layout of cowdisk.
// All keys, their types, validation and documentation live here.
package defaults

import (
	"os"

	e "github.com/pkg/errors"
	"github.com/sahib/config"

	"github.com/sahib/cowdisk/store"
)

// CurrentVersion is the current version of cowdisk's config
const CurrentVersion = 0

// Defaults is the default validation for cowdisk
var Defaults = DefaultsV0

// Empty returns a config with only the default values set.
func Empty() *config.Config {
	cfg, err := config.Open(nil, Defaults, config.StrictnessPanic)
	if err != nil {
		// With a nil decoder this cannot fail; if it does the
		// defaults above are broken and nothing will work anyways.
		panic(err)
	}

	return cfg
}

// OpenMigratedConfig takes the config.yml at path and loads it.
// If required, it also migrates the config structure to the newest
// version - cowdisk can always rely on the latest config keys to be present.
func OpenMigratedConfig(path string) (*config.Config, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, e.Wrap(err, "failed to open config")
	}

	defer fd.Close()

	// Add here any migrations with mgr.Add if needed.
	mgr := config.NewMigrater(CurrentVersion, config.StrictnessPanic)
	mgr.Add(0, nil, DefaultsV0)

	cfg, err := mgr.Migrate(config.NewYamlDecoder(fd))
	if err != nil {
		return nil, e.Wrap(err, "failed to migrate")
	}

	return cfg, nil
}

// StoreOptions converts the store section of `cfg` to store options.
func StoreOptions(cfg *config.Config) store.Options {
	return store.Options{
		BlockSize:      cfg.Int("store.block_size"),
		MaxBitmapSize:  cfg.Int("store.max_bitmap_size"),
		CopyBufferSize: cfg.Int("store.copy_buffer_size"),
	}
}
