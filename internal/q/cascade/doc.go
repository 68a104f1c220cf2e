// Package cascade loads layered configuration into Go structs from multiple sources with predictable precedence.
//
// A Loader holds sources ordered from lowest to highest priority. Register them with the With* methods, then call StrictlyLoad (or StrictlyLoadWithReport to learn which sources
// were applied).
//
// Sources
//   - Defaults and other Go maps (WithDefaults, WithValues). Keys may use dot-notation to denote nesting ("blend.rowtint").
//   - YAML files read at load time (WithYAMLFile). WithNearestYAMLFile searches upward from a starting directory for the first non-empty file with a given relative name.
//   - Environment variables mapped to keys (WithEnv). Missing or empty variables are ignored.
//
// Keys and coercion: keys are case-insensitive and dot-separated. A field's key is its cascade tag name, else its yaml tag name, else its json tag name, else its field name. Unknown
// keys are ignored. Strings are resolved as YAML scalars when the field is a bool or number, so environment variables behave like values written in a file.
//
// Errors: StrictlyLoad fails fast on unparsable files and uncoercible values, naming the source. Missing or unreadable files and empty files are not errors. Fields tagged
// cascade:",required" must be set by some source.
//
// Paths: ExpandPath expands a leading "~". InUserConfigDirectory honors XDG_CONFIG_HOME.
//
// Example
//
//	var cfg Config
//	err := cascade.New().
//	    WithDefaults(map[string]any{"width": 0, "theme": "monokai"}).
//	    WithYAMLFile(cascade.InUserConfigDirectory("splitdiff/config.yaml")).
//	    WithNearestYAMLFile(".splitdiff.yaml", "").
//	    WithEnv(map[string]string{"theme": "SPLITDIFF_THEME"}).
//	    StrictlyLoad(&cfg)
package cascade
