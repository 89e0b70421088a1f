package asmrgo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the on-disk shape asmrctl loads before constructing a
// Processor: which class files or jars to load, the anchor sequence, and
// the free-form config values transformers read via
// TransformerHandle.ConfigValue.
type RunConfig struct {
	Classes []string          `yaml:"classes"`
	Jars    []string          `yaml:"jars"`
	Anchors []string          `yaml:"anchors"`
	Values  map[string]string `yaml:"values"`
}

// LoadRunConfig reads and parses a RunConfig from a yaml file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return &cfg, nil
}

// Apply copies the config's anchors and values into p, then loads its
// classes and jars, so anchors/values are visible before any transformer
// runs.
func (c *RunConfig) Apply(p *Processor, reader Reader) error {
	if len(c.Anchors) > 0 {
		p.SetAnchors(c.Anchors)
	}
	for k, v := range c.Values {
		p.SetConfigValue(k, v)
	}
	for _, path := range c.Classes {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading class file %q: %w", path, err)
		}
		p.AddClass(classNameFromPath(path), data, reader)
	}
	for _, path := range c.Jars {
		if _, err := AddJar(p, path, "", reader); err != nil {
			return fmt.Errorf("reading jar %q: %w", path, err)
		}
	}
	return nil
}

// classNameFromPath derives a placeholder class name from a standalone
// .class file's path, stripping the extension. A real driver with a
// classfile parser would instead read the name from the constant pool.
func classNameFromPath(path string) string {
	name := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			name = path[i+1:]
			break
		}
	}
	if len(name) > 6 && name[len(name)-6:] == ".class" {
		name = name[:len(name)-6]
	}
	return name
}
