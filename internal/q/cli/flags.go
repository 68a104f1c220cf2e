package cli

import (
	"fmt"
	"sort"
	"strconv"
)

type flagKind uint8

const (
	flagBool flagKind = iota + 1
	flagString
	flagInt
	flagFloat
)

func (k flagKind) String() string {
	switch k {
	case flagBool:
		return "bool"
	case flagString:
		return "string"
	case flagInt:
		return "int"
	case flagFloat:
		return "float"
	}
	return ""
}

// FlagSet is a typed flag registry for a command.
type FlagSet struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	kind      flagKind
	defValue  string // shown in help when non-empty
	changed   bool   // set once the flag appears on the command line

	boolPtr   *bool
	stringPtr *string
	intPtr    *int
	floatPtr  *float64
}

func newFlagSet() *FlagSet {
	return &FlagSet{
		byLong:  map[string]*flagDef{},
		byShort: map[rune]*flagDef{},
	}
}

func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	ptr := new(bool)
	*ptr = def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagBool, boolPtr: ptr})
	return ptr
}

func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	ptr := new(string)
	*ptr = def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagString, defValue: def, stringPtr: ptr})
	return ptr
}

func (fs *FlagSet) Int(name string, shorthand rune, def int, usage string) *int {
	ptr := new(int)
	*ptr = def
	d := ""
	if def != 0 {
		d = strconv.Itoa(def)
	}
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagInt, defValue: d, intPtr: ptr})
	return ptr
}

// Float64 registers a float flag. Values are parsed with strconv.ParseFloat.
func (fs *FlagSet) Float64(name string, shorthand rune, def float64, usage string) *float64 {
	ptr := new(float64)
	*ptr = def
	d := ""
	if def != 0 {
		d = strconv.FormatFloat(def, 'g', -1, 64)
	}
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagFloat, defValue: d, floatPtr: ptr})
	return ptr
}

// Changed reports whether the flag named name was given on the command line. It returns false for unknown names.
func (fs *FlagSet) Changed(name string) bool {
	def, ok := fs.byLong[name]
	return ok && def.changed
}

func (fs *FlagSet) add(def *flagDef) {
	if def.name == "" {
		panic("cli: flag name must be non-empty")
	}
	if _, ok := fs.byLong[def.name]; ok {
		panic("cli: duplicate flag: --" + def.name)
	}
	fs.byLong[def.name] = def
	if def.shorthand != 0 {
		if _, ok := fs.byShort[def.shorthand]; ok {
			panic(fmt.Sprintf("cli: duplicate shorthand flag: -%c", def.shorthand))
		}
		fs.byShort[def.shorthand] = def
	}
}

type activeFlags struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

// activeFlags collects the persistent flags of every command from the root down to c, plus c's local flags.
func (c *Command) activeFlags() activeFlags {
	a := activeFlags{byLong: map[string]*flagDef{}, byShort: map[rune]*flagDef{}}
	for _, cmd := range c.pathFromRoot() {
		if cmd.persistentFlags != nil {
			for _, def := range cmd.persistentFlags.byLong {
				a.add(def)
			}
		}
	}
	if c.localFlags != nil {
		for _, def := range c.localFlags.byLong {
			a.add(def)
		}
	}
	return a
}

func (a activeFlags) add(def *flagDef) {
	if existing, ok := a.byLong[def.name]; ok && existing != def {
		panic("cli: flag name conflict across command path: --" + def.name)
	}
	a.byLong[def.name] = def
	if def.shorthand != 0 {
		if existing, ok := a.byShort[def.shorthand]; ok && existing != def {
			panic(fmt.Sprintf("cli: shorthand conflict across command path: -%c", def.shorthand))
		}
		a.byShort[def.shorthand] = def
	}
}

func flagsForHelp(cmd *Command) []*flagDef {
	active := cmd.activeFlags()
	defs := make([]*flagDef, 0, len(active.byLong))
	for _, def := range active.byLong {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return defs
}

func (def *flagDef) set(raw string) error {
	switch def.kind {
	case flagBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*def.boolPtr = v
	case flagString:
		*def.stringPtr = raw
	case flagInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*def.intPtr = v
	case flagFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*def.floatPtr = v
	default:
		return fmt.Errorf("unknown flag kind")
	}
	def.changed = true
	return nil
}

// value returns the flag's current value as its Go type.
func (def *flagDef) value() any {
	switch def.kind {
	case flagBool:
		return *def.boolPtr
	case flagString:
		return *def.stringPtr
	case flagInt:
		return *def.intPtr
	case flagFloat:
		return *def.floatPtr
	}
	return nil
}

func (def *flagDef) display() string {
	if def.shorthand != 0 {
		return fmt.Sprintf("-%c/--%s", def.shorthand, def.name)
	}
	return "--" + def.name
}
