package cascade

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// source supplies key/value data to the loader in normalized form.
type source interface {
	// Name labels the source in error messages.
	Name() string

	// Providence is recorded on fields the source sets.
	Providence() Providence

	// ToMap returns a normalized map: keys are lower cased and contain no "."; values are nested map[string]any, scalars (int, float64, bool, string), []any of those, or nil.
	ToMap() (map[string]any, error)
}

// sourceMap adapts a Go map. Keys may use dot-notation to create nested objects.
type sourceMap struct {
	kind string // "default", "flags", ...
	m    map[string]any
}

// sourceYAMLFile reads a single YAML file at load time. Empty or whitespace-only files contribute no values.
type sourceYAMLFile struct {
	path string
}

// sourceEnv maps configuration keys to environment variables. Ex: {"intraline.threshold": "SPLITDIFF_INTRALINE_THRESHOLD"}.
type sourceEnv struct {
	keyToEnv map[string]string
}

func (s *sourceMap) Name() string {
	if s.kind == "default" {
		return "Defaults"
	}
	return "Values (" + s.kind + ")"
}

func (s *sourceMap) Providence() Providence {
	return Providence{SourceType: s.kind}
}

func (s *sourceMap) ToMap() (map[string]any, error) {
	out := map[string]any{}
	if err := mergeMap(out, s.m, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sourceYAMLFile) Name() string {
	return "YAML File: " + s.path
}

func (s *sourceYAMLFile) Providence() Providence {
	return Providence{SourceType: "yaml_file", SourceIdentifier: ExpandPath(s.path)}
}

func (s *sourceYAMLFile) ToMap() (map[string]any, error) {
	if s.path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(ExpandPath(s.path))
	if err != nil {
		return nil, fmt.Errorf("read yaml file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		// Comments only.
		return map[string]any{}, nil
	}
	normalized, err := normalizeValue(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level YAML must be a mapping")
	}

	out := map[string]any{}
	if err := mergeMap(out, obj, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sourceEnv) Name() string {
	return "ENV"
}

func (s *sourceEnv) Providence() Providence {
	return Providence{SourceType: "env"}
}

// ToMap reads each mapped variable. Missing and empty variables set no key, so an exported-but-empty variable never clobbers a file setting.
func (s *sourceEnv) ToMap() (map[string]any, error) {
	out := map[string]any{}
	for key, envVar := range s.keyToEnv {
		if envVar == "" {
			continue
		}
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			continue
		}
		if err := mergeIntoObject(out, strings.Split(key, "."), val, key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeMap merges src into dest, lowercasing keys and expanding dotted keys into nested objects. baseKey prefixes error paths.
func mergeMap(dest map[string]any, src map[string]any, baseKey string) error {
	for k, v := range src {
		full := strings.ToLower(k)
		if baseKey != "" {
			full = baseKey + "." + full
		}
		if err := mergeIntoObject(dest, strings.Split(k, "."), v, full); err != nil {
			return err
		}
	}
	return nil
}

// mergeIntoObject inserts value into obj along parts. Objects at the leaf are deep-merged. Setting a leaf twice, or descending through a non-object, is a key conflict.
func mergeIntoObject(obj map[string]any, parts []string, value any, fullKey string) error {
	if len(parts) == 0 || parts[0] == "" {
		return fmt.Errorf("invalid key %q", fullKey)
	}
	part := strings.ToLower(parts[0])
	existing, exists := obj[part]

	if len(parts) > 1 {
		if !exists {
			child := map[string]any{}
			obj[part] = child
			return mergeIntoObject(child, parts[1:], value, fullKey)
		}
		child, ok := existing.(map[string]any)
		if !ok {
			return fmt.Errorf("key conflict at '%s': '%s' is not an object", fullKey, part)
		}
		return mergeIntoObject(child, parts[1:], value, fullKey)
	}

	if mv, ok := value.(map[string]any); ok {
		if !exists {
			child := map[string]any{}
			obj[part] = child
			return mergeMap(child, mv, fullKey)
		}
		child, isMap := existing.(map[string]any)
		if !isMap {
			return fmt.Errorf("key conflict: key '%s' was already set", fullKey)
		}
		return mergeMap(child, mv, fullKey)
	}

	normalized, err := normalizeValue(value)
	if err != nil {
		return fmt.Errorf("invalid value for key '%s': %w", fullKey, err)
	}
	if exists {
		return fmt.Errorf("key conflict: key '%s' was already set", fullKey)
	}
	obj[part] = normalized
	return nil
}

// normalizeValue converts decoded YAML (or Go literals from WithDefaults) into the normalized value forms. Typed slices become []any, timestamps become RFC 3339 strings, and
// mappings must have scalar keys.
func normalizeValue(v any) (any, error) {
	switch vv := v.(type) {
	case nil, string, bool, int, float64:
		return vv, nil
	case int64:
		return int(vv), nil
	case uint64:
		if vv > uint64(^uint(0)>>1) {
			return nil, fmt.Errorf("integer %d overflows int", vv)
		}
		return int(vv), nil
	case float32:
		return float64(vv), nil
	case time.Time:
		return vv.Format(time.RFC3339), nil
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", k, err)
			}
			out[k] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			ks := fmt.Sprint(k)
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", ks, err)
			}
			out[ks] = ne
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := range out {
			ne, err := normalizeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = ne
		}
		return out, nil
	}
	return nil, fmt.Errorf("type %T is not allowed", v)
}

// coerceScalar converts raw to a value of type t. Strings headed for bool, int, or float fields are resolved as YAML scalars; numbers and bools headed for string fields are formatted.
// Floats assigned to int fields are truncated toward zero.
func coerceScalar(raw any, t reflect.Type, path string) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	fail := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%s: cannot coerce %T to %s", path, raw, t.Kind())
	}

	switch t.Kind() {
	case reflect.String:
		switch v := raw.(type) {
		case string:
			out.SetString(v)
		case int:
			out.SetString(strconv.Itoa(v))
		case float64:
			out.SetString(strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			out.SetString(strconv.FormatBool(v))
		default:
			return fail()
		}

	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			out.SetBool(v)
		case string:
			var b bool
			if err := unmarshalScalar(v, &b); err != nil {
				return reflect.Value{}, fmt.Errorf("%s: cannot parse bool from %q", path, v)
			}
			out.SetBool(b)
		default:
			return fail()
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch v := raw.(type) {
		case int:
			n = int64(v)
		case float64:
			n = int64(v)
		case string:
			if err := unmarshalScalar(v, &n); err != nil {
				return reflect.Value{}, fmt.Errorf("%s: cannot parse int from %q", path, v)
			}
		default:
			return fail()
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%s: %d overflows %s", path, n, t.Kind())
		}
		out.SetInt(n)

	case reflect.Float32, reflect.Float64:
		var f float64
		switch v := raw.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case string:
			if err := unmarshalScalar(v, &f); err != nil {
				return reflect.Value{}, fmt.Errorf("%s: cannot parse float from %q", path, v)
			}
		default:
			return fail()
		}
		out.SetFloat(f)

	default:
		return reflect.Value{}, fmt.Errorf("%s: unsupported field kind %s", path, t.Kind())
	}
	return out, nil
}

// unmarshalScalar resolves s as a YAML scalar into dest.
func unmarshalScalar(s string, dest any) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("empty value")
	}
	return yaml.Unmarshal([]byte(s), dest)
}
