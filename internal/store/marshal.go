package store

import (
	"encoding/json"
	"fmt"

	"github.com/pipedev/pipedev/internal/ir"
)

// marshalList stores a string list as canonical JSON TEXT.
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := ir.MarshalCanonical(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// marshalParams stores a parameter map as canonical JSON TEXT.
func marshalParams(params map[string]string) (string, error) {
	if params == nil {
		params = map[string]string{}
	}
	data, err := ir.MarshalCanonical(params)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(data string) ([]string, error) {
	out := []string{}
	if data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return out, nil
}

func unmarshalParams(data string) (map[string]string, error) {
	out := map[string]string{}
	if data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal parameters: %w", err)
	}
	return out, nil
}
