package sdk

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// TomlReadFile parses path as TOML into a value.Value tree (spec §4.5).
func (s *SDK) TomlReadFile(path string) (value.Value, bool) {
	if !s.checkPath(path) {
		return value.Null(), false
	}
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		s.Error("toml_read_file: " + err.Error())
		return value.Null(), false
	}
	return value.FromNative(raw), true
}

// TomlWriteFile serializes v as TOML to path.
func (s *SDK) TomlWriteFile(path string, v value.Value) bool {
	if !s.checkPath(path) {
		return false
	}
	f, err := os.Create(path)
	if err != nil {
		s.Error("toml_write_file: " + err.Error())
		return false
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(v.Native()); err != nil {
		s.Error("toml_write_file: " + err.Error())
		return false
	}
	return true
}
