package quotecard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseConfig reads Options from YAML. Fields missing from the document
// keep their DefaultOptions value; unknown fields are an error.
func ParseConfig(b []byte) (Options, error) {
	o := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("quotecard: parsing config: %w", err)
	}
	return o, nil
}

// LoadConfig reads Options from a YAML file.
func LoadConfig(path string) (Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("quotecard: reading config: %w", err)
	}
	return ParseConfig(b)
}

// MarshalConfig writes Options as YAML.
func MarshalConfig(o Options) ([]byte, error) {
	return yaml.Marshal(o)
}
