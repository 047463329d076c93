package validate

import (
	"bytes"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"

	"github.com/mehmetkoksal-w/velo-assist/internal/jsonc"
	"github.com/mehmetkoksal-w/velo-assist/schemas"
)

// JSONC validates a JSONC file on fsys against an embedded schema.
func JSONC(fsys afero.Fs, path string, schemaName string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Bytes(data, schemaName); err != nil {
		return fmt.Errorf("%s invalid: %w", path, err)
	}
	return nil
}

// Bytes validates JSONC input against an embedded schema.
func Bytes(data []byte, schemaName string) error {
	schema, err := schemas.Compile(schemaName)
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonc.Clean(data)))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return schema.Validate(instance)
}
