package jsonc

import (
	"encoding/json"
	"fmt"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
	"github.com/spf13/afero"
)

// DecodeFile loads a JSONC file from fsys into the provided destination.
func DecodeFile(fsys afero.Fs, path string, dest any) error {
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Decode(b, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals JSONC input into dest.
func Decode(data []byte, dest any) error {
	return json.Unmarshal(Clean(data), dest)
}

// Clean strips comments and trailing commas from JSONC input.
func Clean(data []byte) []byte {
	return jsonc.ToJSON(data)
}
