package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError is a tool config problem the operator can fix: a YAML
// syntax error at Line, or a bad value at the key path Field.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

var validate = validator.New()

// checkYAMLSyntax parses data so a malformed config is reported with its
// position before koanf sees it. Blank content is valid and keeps defaults.
func checkYAMLSyntax(path string, data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		line, column, message := splitYAMLError(err.Error())
		return &ValidationError{FilePath: path, Line: line, Column: column, Message: message}
	}
	return nil
}

// checkValues applies the validate tags of Configuration and reports the
// first failing field as a config key. source names the layer reported to
// the operator.
func checkValues(cfg *Configuration, source string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			FilePath: source,
			Field:    configKey(fieldErrs[0]),
			Message:  describe(fieldErrs[0]),
		}
	}
	return &ValidationError{FilePath: source, Message: err.Error()}
}

// configKey renders the namespace of a failing field as a config key path,
// e.g. Configuration.Fallback.RootName -> fallback.root_name and
// Configuration.Phrases[0].From -> phrases[0].from.
func configKey(fieldErr validator.FieldError) string {
	parts := strings.Split(fieldErr.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = toSnakeCase(part)
	}
	return strings.Join(parts, ".")
}

// splitYAMLError takes yaml.v3's "yaml: line 5: column 3: msg" apart. The
// column defaults to 1 when only a line is given; no position yields zeros
// and the message unchanged.
func splitYAMLError(msg string) (line, column int, message string) {
	rest, ok := strings.CutPrefix(msg, "yaml: ")
	if !ok {
		return 0, 0, msg
	}
	var l, c int
	if n, _ := fmt.Sscanf(rest, "line %d: column %d:", &l, &c); n == 2 {
		if _, after, found := strings.Cut(rest, fmt.Sprintf("column %d: ", c)); found {
			return l, c, after
		}
		return l, c, rest
	}
	if n, _ := fmt.Sscanf(rest, "line %d:", &l); n == 1 {
		if _, after, found := strings.Cut(rest, ": "); found {
			return l, 1, after
		}
		return l, 1, rest
	}
	return 0, 0, msg
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		if fieldErr.Kind() == reflect.Slice {
			return fmt.Sprintf("must list at least %s entry", fieldErr.Param())
		}
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}

// toSnakeCase converts a CamelCase field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
