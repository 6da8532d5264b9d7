package credentials

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat は CREDENTIALS_FILE の構造です。
//
//	users:
//	  admin: "1234"
//	  user1: "user1pass"
type fileFormat struct {
	Users map[string]string `yaml:"users"`
}

// LoadFile は YAML ファイルからユーザー表を読み込みます。
// path が空の場合は DefaultTable を返します。
func LoadFile(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var parsed fileFormat
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	if len(parsed.Users) == 0 {
		return nil, errors.New("credentials file has no users")
	}
	if _, ok := parsed.Users[""]; ok {
		return nil, errors.New("credentials file contains an empty username")
	}

	return Table(parsed.Users), nil
}
