package defaults

import (
	"github.com/sahib/config"
)

// DefaultsV0 is the default config validation for cowdisk
var DefaultsV0 = config.DefaultMapping{
	"store": config.DefaultMapping{
		"block_size": config.DefaultEntry{
			Default:      512,
			NeedsRestart: true,
			Docs:         "Size of a single storage block in bytes.",
			Validator:    config.IntRangeValidator(1, 1024*1024),
		},
		"max_bitmap_size": config.DefaultEntry{
			Default:      1024,
			NeedsRestart: true,
			Docs: `Maximum size of the dirty bitmap in bytes.

  More bitmap means smaller groups and less copy-on-write amplification,
  at the cost of a bigger in-memory bitmap.
`,
			Validator: config.IntRangeValidator(1, 1024*1024*16),
		},
		"copy_buffer_size": config.DefaultEntry{
			Default:      2048,
			NeedsRestart: true,
			Docs:         "Size of the scratch buffer used for copy-on-write promotion.",
			Validator:    config.IntRangeValidator(1, 1024*1024*64),
		},
	},
	"log": config.DefaultMapping{
		"level": config.DefaultEntry{
			Default:      "info",
			NeedsRestart: false,
			Docs:         "Log level (debug, info, warning, error).",
			Validator: config.EnumValidator(
				"debug", "info", "warning", "error",
			),
		},
	},
}
