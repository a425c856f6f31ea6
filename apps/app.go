// SPDX-License-Identifier: MPL-2.0

package apps

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

var ErrUnexpectedShape = errors.New("unexpected apps document shape")

type App struct {
	ID         string    `json:"id" mapstructure:"id"`
	Name       string    `json:"name" mapstructure:"name"`
	Type       string    `json:"type" mapstructure:"type"`
	Path       string    `json:"path" mapstructure:"path"`
	Content    string    `json:"content,omitempty" mapstructure:"content"`
	Visibility string    `json:"visibility,omitempty" mapstructure:"visibility"`
	UpdatedAt  time.Time `json:"updatedAt" mapstructure:"updatedAt"`
	UpdatedBy  string    `json:"updatedBy,omitempty" mapstructure:"updatedBy"`
}

// Narrow converts a value returned by FetchApps into a typed list.
// Both a bare array and an object with an "apps" array are accepted.
func Narrow(v any) ([]App, error) {
	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	case map[string]any:
		list, found := t["apps"].([]any)
		if !found {
			return nil, fmt.Errorf("%w: object without apps array", ErrUnexpectedShape)
		}
		raw = list
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedShape, v)
	}

	out := make([]App, 0, len(raw))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:     &out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}
	return out, nil
}
