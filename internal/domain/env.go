package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var envKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SplitEnvEntry splits a NAME=VALUE entry at the first '='.
// The value keeps any further '=' characters. When the entry has no '=' at
// all the whole string is the name, the value is empty and ok is false.
func SplitEnvEntry(entry string) (env EnvVar, ok bool) {
	name, value, found := strings.Cut(entry, "=")
	return EnvVar{Name: name, Value: value}, found
}

// ValidateEnvKey checks that a key is a portable shell variable name.
// Keys coming from image configs are passed through as-is; this applies to
// entries supplied by the operator.
func ValidateEnvKey(key string) error {
	if !envKeyRegex.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidEnvKey, key)
	}
	return nil
}

// ParseEnvAssignments parses operator-supplied NAME=VALUE pairs, rejecting
// entries without '=' or with an invalid name.
func ParseEnvAssignments(entries []string) ([]EnvVar, error) {
	vars := make([]EnvVar, 0, len(entries))
	for _, entry := range entries {
		env, ok := SplitEnvEntry(entry)
		if !ok {
			return nil, fmt.Errorf("%w: %q has no '='", ErrInvalidEnvKey, entry)
		}
		if err := ValidateEnvKey(env.Name); err != nil {
			return nil, err
		}
		vars = append(vars, env)
	}
	return vars, nil
}
