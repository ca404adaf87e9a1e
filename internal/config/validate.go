package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// configSchema is the CUE schema every loaded configuration must satisfy.
// The struct is closed: unknown fields are rejected rather than silently
// ignored, which catches indentation mistakes in the YAML.
const configSchema = `
#Config: close({
	server: close({
		http_addr: string & !=""
	})
	database: close({
		path: string & !=""
	})
	vendor: close({
		key:      string & !=""
		timezone: string
	})
	logging: close({
		level:  "debug" | "info" | "warn" | "error"
		format: "text" | "json"
	})
})
`

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: config schema does not compile: %w", err)
	}
	schema = schema.LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: config schema lookup: %w", err)
	}

	val := ctx.Encode(cfg)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
