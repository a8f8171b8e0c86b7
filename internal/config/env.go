package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// lookupFunc reports the value of an environment variable and whether it is set.
type lookupFunc func(key string) (string, bool)

// applyEnv overrides every field tagged `env:"NAME"` whose variable is set.
// Nested structs are walked. All bad values are reported together so a
// misconfigured deployment sees every problem in one run.
func applyEnv(target interface{}, lookup lookupFunc) error {
	val := reflect.ValueOf(target)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	var errs error
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if field.Kind() == reflect.Struct {
			errs = errors.Join(errs, applyEnv(field.Addr().Interface(), lookup))
			continue
		}

		name := fieldType.Tag.Get("env")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := lookup(name)
		if !ok {
			continue
		}

		if err := setField(field, strings.TrimSpace(raw)); err != nil {
			errs = errors.Join(errs, fmt.Errorf("env %s: %w", name, err))
		}
	}
	return errs
}

// setField parses value into the kinds the Config struct uses.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
