package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `[log]
level = "info"
timestamp = true
no_color = false

[frame]
stream = "default"
max_payload_bytes = 8388608
checksum = true
`
