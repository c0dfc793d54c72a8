// Package config loads the tapl.yaml build configuration: where
// generated C sources go, which C compiler turns them into the final
// executable, and which list element types get their runtime
// specializations pre-generated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tapl-lang/tapl/internal/types"
)

// DefaultFile is the configuration file name looked up in the working
// directory.
const DefaultFile = "tapl.yaml"

// Config is the top-level tapl.yaml configuration.
type Config struct {
	Build   Build   `yaml:"build,omitempty"`
	Runtime Runtime `yaml:"runtime,omitempty"`
}

// Build configures the C build step.
type Build struct {
	// Folder is the directory generated C sources and objects are
	// staged in. Defaults to "build".
	Folder string `yaml:"folder,omitempty"`

	// Compiler is the C compiler executable. Defaults to "cc".
	Compiler string `yaml:"compiler,omitempty"`

	// Flags are extra compiler flags appended after the defaults.
	Flags []string `yaml:"flags,omitempty"`

	// Output is the executable name. Defaults to "program".
	Output string `yaml:"output,omitempty"`
}

// Runtime configures the generated list runtime.
type Runtime struct {
	// ListTypes are the element type keywords whose list
	// specializations the runtime command generates, e.g.
	// "u64" or "list[char]".
	ListTypes []string `yaml:"list_types,omitempty"`
}

// Default returns the configuration used when no tapl.yaml exists.
func Default() *Config {
	return &Config{
		Build: Build{
			Folder:   "build",
			Compiler: "cc",
			Output:   "program",
		},
	}
}

// Parse decodes a tapl.yaml document and applies defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing tapl.yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path. A missing
// file is not an error: the defaults apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

func (c *Config) validate() error {
	if c.Build.Folder == "" {
		return fmt.Errorf("tapl.yaml: build.folder must not be empty")
	}
	if c.Build.Compiler == "" {
		return fmt.Errorf("tapl.yaml: build.compiler must not be empty")
	}
	if c.Build.Output == "" {
		return fmt.Errorf("tapl.yaml: build.output must not be empty")
	}
	return nil
}

// ElementTypes resolves the configured list element type keywords
// against the compilation's type collection, in configuration order.
func (c *Config) ElementTypes(ts *types.Types) ([]types.Type, error) {
	elems := make([]types.Type, 0, len(c.Runtime.ListTypes))
	for _, keyword := range c.Runtime.ListTypes {
		typ, err := ts.Parse(keyword)
		if err != nil {
			return nil, fmt.Errorf("tapl.yaml: runtime.list_types: %w", err)
		}
		elems = append(elems, typ)
	}
	return elems, nil
}
