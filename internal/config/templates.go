package config

import (
	"fmt"
	"os"
)

func Template() string {
	return sessionTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(sessionTemplate), 0o600)
}

const sessionTemplate = `app_id = 10

[limits]
max_message_bytes = 65536

[[peers]]
name = "alice"
app_id = 10
node = "127.0.0.1"
port = 8803

[[peers]]
name = "bob"
app_id = 10
node = "127.0.0.1"
port = 8804
`
