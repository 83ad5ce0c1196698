package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "panel":
		return panelTemplate, nil
	case "gateway":
		return gatewayTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const panelTemplate = `id = "panel.local"
addr = ":8000"
cors_origins = ["http://localhost:3000"]
pairing_delay = "2s"
shutdown_timeout = "5s"

[profile]
botname = "Hitori Bot"
packname = "Bot WhatsApp"
author = "Nazedev"
owners = ["6282113821188"]

[profile.multi_bot]
enabled = true
bots = []

[profile.web_settings]
`

const gatewayTemplate = `id = "gateway.local"
addr = ":3000"
backend_url = "http://localhost:8000"
cors_origins = ["http://localhost:3000"]
upstream_timeout = "10s"
shutdown_timeout = "5s"
`
