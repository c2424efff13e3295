package graspbase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
)

// ErrUnknownArm is returned when an arm name has no entry in the hand
// registry.
var ErrUnknownArm = errors.New("no hand description for arm")

// HandDescriptor describes the end effector mounted on one arm: the hand
// identifier used by the model database and the hand's controllable
// joints in canonical order.
type HandDescriptor struct {
	DatabaseName string   `mapstructure:"hand_database_name"`
	Joints       []string `mapstructure:"hand_joints"`
}

// HandRegistry maps arm names to their hand descriptors.
type HandRegistry map[string]HandDescriptor

// LoadHandRegistry reads a hand registry from a JSON file keyed by arm
// name.
func LoadHandRegistry(path string) (HandRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hand registry: %w", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hand registry: %w", err)
	}
	var reg HandRegistry
	if err := mapstructure.Decode(raw, &reg); err != nil {
		return nil, fmt.Errorf("decoding hand registry: %w", err)
	}
	return reg, nil
}

// DatabaseName resolves the model database's hand identifier for an arm.
func (r HandRegistry) DatabaseName(armName string) (string, error) {
	hd, ok := r[armName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownArm, armName)
	}
	return hd.DatabaseName, nil
}

// JointNames resolves the ordered joint names of the hand on an arm.
func (r HandRegistry) JointNames(armName string) ([]string, error) {
	hd, ok := r[armName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArm, armName)
	}
	return hd.Joints, nil
}
