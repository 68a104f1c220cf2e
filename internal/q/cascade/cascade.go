package cascade

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Loader builds a prioritized cascade of configuration sources and applies them to a destination struct. Register sources in call order from lowest to highest priority using the With*
// methods, then call StrictlyLoad. The zero value is ready to use.
type Loader struct {
	sources []source // low to high priority
}

// Providence records which source last set a field. A struct field named XProvidence (of type Providence or *Providence) is filled in whenever field X is assigned.
type Providence struct {
	SourceType       string // ex: "default", "env", "yaml_file", "flags"
	SourceIdentifier string // ex: "/home/me/.config/splitdiff/config.yaml". "" for sources without identifiers.
}

func (p Providence) IsSet() bool {
	return p.SourceType != ""
}

func (p Providence) Default() bool {
	return p.SourceType == "default"
}

func (p Providence) String() string {
	if p.SourceIdentifier == "" {
		return p.SourceType
	}
	return p.SourceType + ": " + p.SourceIdentifier
}

// LoadReport lists the sources that contributed values, in precedence order (lowest first). Missing files are not listed.
type LoadReport struct {
	Sources []Providence
}

// New returns a new Loader. It is equivalent to &Loader{} and exists to support fluent chaining.
func New() *Loader {
	return &Loader{}
}

// WithDefaults registers m as a source of default values. Keys may use dot-notation ("blend.rowtint") and are matched case-insensitively. A nil map contributes no values.
func (c *Loader) WithDefaults(m map[string]any) *Loader {
	c.sources = append(c.sources, &sourceMap{kind: "default", m: m})
	return c
}

// WithValues registers m as a source named kind (ex: "flags"). It behaves like WithDefaults but reports kind as its provenance.
func (c *Loader) WithValues(kind string, m map[string]any) *Loader {
	c.sources = append(c.sources, &sourceMap{kind: kind, m: m})
	return c
}

// WithYAMLFile registers a YAML file. path may be absolute, relative, or start with "~"; it is expanded with ExpandPath. The file is read at load time, and a missing file contributes
// nothing.
func (c *Loader) WithYAMLFile(path string) *Loader {
	c.sources = append(c.sources, &sourceYAMLFile{path: path})
	return c
}

// WithNearestYAMLFile searches upward from start (or the working directory when start is "") for the first readable, non-empty file named fileName and registers it. fileName must
// be relative; WithNearestYAMLFile panics otherwise. If start names a file, its directory is used. If nothing is found the loader is unchanged.
func (c *Loader) WithNearestYAMLFile(fileName string, start string) *Loader {
	if filepath.IsAbs(fileName) {
		panic("fileName shouldn't be absolute")
	}
	if found := findNearest(fileName, start); found != "" {
		c.sources = append(c.sources, &sourceYAMLFile{path: found})
	}
	return c
}

func findNearest(fileName string, start string) string {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		start = wd
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; {
		candidate := filepath.Join(dir, fileName)
		if data, err := os.ReadFile(candidate); err == nil && strings.TrimSpace(string(data)) != "" {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// WithEnv registers environment variables. m maps a configuration key (dots denote nesting) to a variable name. Missing and empty variables are ignored. Values are strings, resolved
// as YAML scalars when assigned to typed fields (so "yes" sets a bool and "0.7" sets a float).
func (c *Loader) WithEnv(m map[string]string) *Loader {
	c.sources = append(c.sources, &sourceEnv{keyToEnv: m})
	return c
}

// StrictlyLoad loads configuration from c's sources into dest, a non-nil pointer to a struct. Later sources overwrite earlier values.
//
// Fields are matched by key: the cascade tag name, then the yaml tag name, then the json tag name, then the field name, all case-insensitively. Unknown keys are ignored. A field
// tagged `cascade:",required"` must be set by some source.
//
// StrictlyLoad fails fast when a readable source cannot be parsed or supplies a value that cannot be coerced to its field; missing or unreadable files are skipped. Errors name the
// source.
func (c *Loader) StrictlyLoad(dest any) error {
	_, err := c.StrictlyLoadWithReport(dest)
	return err
}

// StrictlyLoadWithReport is StrictlyLoad that also reports which sources were applied.
func (c *Loader) StrictlyLoadWithReport(dest any) (LoadReport, error) {
	var report LoadReport

	destVal := reflect.ValueOf(dest)
	if dest == nil || destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return report, fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	structVal := destVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return report, fmt.Errorf("dest must be a pointer to struct, got %s", structVal.Kind())
	}

	present := map[string]bool{}
	for _, src := range c.sources {
		m, err := src.ToMap()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return report, fmt.Errorf("%s: %w", src.Name(), err)
		}
		prov := src.Providence()
		if err := applyMapToStruct(structVal, m, "", present, prov); err != nil {
			return report, fmt.Errorf("%s: %w", src.Name(), err)
		}
		report.Sources = append(report.Sources, prov)
	}

	if err := validateRequiredFields(structVal, "", present); err != nil {
		return report, err
	}
	return report, nil
}

// fieldKey returns the lowercased key a struct field is matched by, or "-" to skip it.
func fieldKey(f reflect.StructField) string {
	if name, _, _ := strings.Cut(f.Tag.Get("cascade"), ","); strings.TrimSpace(name) != "" {
		return strings.ToLower(strings.TrimSpace(name))
	}
	// yaml:"-" and json:"-" only opt out of that encoding's naming.
	for _, tag := range []string{"yaml", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name = strings.TrimSpace(name); name != "" && name != "-" {
			return strings.ToLower(name)
		}
	}
	return strings.ToLower(f.Name)
}

func isRequired(f reflect.StructField) bool {
	_, opts, _ := strings.Cut(f.Tag.Get("cascade"), ",")
	for _, o := range strings.Split(opts, ",") {
		if strings.TrimSpace(o) == "required" {
			return true
		}
	}
	return false
}

var providenceType = reflect.TypeOf(Providence{})

// applyMapToStruct writes m into structVal, recursing into nested objects. basePath prefixes recorded paths and error messages. present records every assigned leaf path.
func applyMapToStruct(structVal reflect.Value, m map[string]any, basePath string, present map[string]bool, prov Providence) error {
	structType := structVal.Type()

	fieldIndex := map[string]int{}
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		if !structVal.Field(i).CanSet() {
			continue
		}
		key := fieldKey(f)
		if key == "-" || key == "" {
			continue
		}
		if prev, exists := fieldIndex[key]; exists {
			return fmt.Errorf("struct contains case-insensitive field key collision for %q: %s and %s", key, structType.Field(prev).Name, f.Name)
		}
		fieldIndex[key] = i
	}

	for key, raw := range m {
		keyLower := strings.ToLower(key)
		idx, ok := fieldIndex[keyLower]
		if !ok {
			continue
		}
		path := keyLower
		if basePath != "" {
			path = basePath + "." + keyLower
		}

		f := structType.Field(idx)
		if err := setFieldValue(structVal.Field(idx), raw, path, present, prov); err != nil {
			return err
		}
		if provIdx, ok := fieldIndex[strings.ToLower(f.Name+"Providence")]; ok {
			setProvidence(structVal.Field(provIdx), prov)
		}
	}
	return nil
}

func setProvidence(pf reflect.Value, prov Providence) {
	switch {
	case pf.Type() == providenceType:
		pf.Set(reflect.ValueOf(prov))
	case pf.Kind() == reflect.Ptr && pf.Type().Elem() == providenceType:
		if pf.IsNil() {
			pf.Set(reflect.New(providenceType))
		}
		pf.Elem().Set(reflect.ValueOf(prov))
	}
}

// setFieldValue assigns raw to fVal, allocating pointers as needed. Objects fill structs, scalars are coerced with coerceScalar, and any slice fills a slice element by element.
func setFieldValue(fVal reflect.Value, raw any, path string, present map[string]bool, prov Providence) error {
	if fVal.Kind() == reflect.Ptr {
		if fVal.IsNil() {
			fVal.Set(reflect.New(fVal.Type().Elem()))
		}
		return setFieldValue(fVal.Elem(), raw, path, present, prov)
	}

	switch fVal.Kind() {
	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object for struct field", path)
		}
		return applyMapToStruct(fVal, obj, path, present, prov)

	case reflect.Slice:
		rv := reflect.ValueOf(raw)
		if raw == nil || rv.Kind() != reflect.Slice {
			return fmt.Errorf("%s: cannot coerce %T to slice", path, raw)
		}
		slice := reflect.MakeSlice(fVal.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if err := setFieldValue(slice.Index(i), rv.Index(i).Interface(), elemPath, present, prov); err != nil {
				return err
			}
		}
		fVal.Set(slice)
		present[path] = true
		return nil

	default:
		coerced, err := coerceScalar(raw, fVal.Type(), path)
		if err != nil {
			return err
		}
		fVal.Set(coerced)
		present[path] = true
		return nil
	}
}

// validateRequiredFields returns an error naming the first field tagged required that present does not record. It recurses into structs, non-nil struct pointers, and slices of
// structs.
func validateRequiredFields(structVal reflect.Value, basePath string, present map[string]bool) error {
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		key := fieldKey(f)
		if key == "-" || key == "" {
			continue
		}
		path := key
		if basePath != "" {
			path = basePath + "." + key
		}

		fv := structVal.Field(i)
		if isRequired(f) && !present[path] && !presentBelow(present, path) {
			return fmt.Errorf("missing required key: %s", path)
		}

		switch fv.Kind() {
		case reflect.Ptr:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
				if err := validateRequiredFields(fv.Elem(), path, present); err != nil {
					return err
				}
			}
		case reflect.Struct:
			if err := validateRequiredFields(fv, path, present); err != nil {
				return err
			}
		case reflect.Slice:
			if fv.Type().Elem().Kind() == reflect.Struct {
				for j := 0; j < fv.Len(); j++ {
					if err := validateRequiredFields(fv.Index(j), fmt.Sprintf("%s[%d]", path, j), present); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// presentBelow reports whether any path nested under path was set, which counts a required struct field as present.
func presentBelow(present map[string]bool, path string) bool {
	for p := range present {
		if strings.HasPrefix(p, path+".") {
			return true
		}
	}
	return false
}
