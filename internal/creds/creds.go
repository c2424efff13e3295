package creds

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MachineCredentials holds the connection details for the Viam machine
// that serves frame transforms. All fields are required to dial.
type MachineCredentials struct {
	Address  string `json:"address"`
	EntityID string `json:"entity_id"`
	APIKey   string `json:"api_key"`
}

// Load reads, parses, and validates machine credentials from a JSON file.
func Load(path string) (*MachineCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	var c MachineCredentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("credentials file %s: %w", path, err)
	}
	return &c, nil
}

func (c *MachineCredentials) validate() error {
	var missing []string
	if c.Address == "" {
		missing = append(missing, "address")
	}
	if c.EntityID == "" {
		missing = append(missing, "entity_id")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
