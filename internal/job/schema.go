package job

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"pcbooth/internal/errs"
)

// Kind is the declared type of a schema field.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStringList:
		return "string list"
	default:
		return "unknown"
	}
}

// Field declares one recognized parameter with its type and default.
type Field struct {
	Name    string
	Kind    Kind
	Default any
}

// Schema is a job's declarative parameter set. Raw configuration keys absent
// from the schema are dropped; schema fields absent from the configuration
// take their defaults.
type Schema []Field

// Params is a validated parameter set. Every key comes from the schema and
// every value carries the schema's canonical Go type.
type Params map[string]any

// ParseParams validates raw configuration values against the schema. A
// present value that cannot be coerced to the declared kind fails with an
// InvalidParameter error naming the field; int/float widening, whole-float
// narrowing, and numeric string-list elements are tolerated.
func ParseParams(jobName string, raw map[string]any, schema Schema) (Params, error) {
	params := make(Params, len(schema))
	for _, field := range schema {
		value, present := raw[field.Name]
		if !present {
			params[field.Name] = defaultValue(field)
			continue
		}
		coerced, err := coerce(field.Kind, value)
		if err != nil {
			return nil, errs.Wrap(errs.ErrInvalidParameter, jobName, "parse parameters",
				fmt.Sprintf("%s: %v", field.Name, err), nil)
		}
		params[field.Name] = coerced
	}
	return params, nil
}

func defaultValue(field Field) any {
	if field.Default != nil {
		if coerced, err := coerce(field.Kind, field.Default); err == nil {
			return coerced
		}
	}
	switch field.Kind {
	case KindBool:
		return false
	case KindInt:
		return 0
	case KindFloat:
		return 0.0
	case KindString:
		return ""
	case KindStringList:
		return []string(nil)
	default:
		return nil
	}
}

// coerce maps a raw TOML-decoded value onto the canonical type for kind.
func coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v == math.Trunc(v) {
				return int(v), nil
			}
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case KindStringList:
		return coerceStringList(value)
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, value)
}

// coerceStringList accepts []string directly and []any whose elements are
// strings or integers; integers are formatted, so frame lists mixing "start"
// and frame numbers survive TOML decoding.
func coerceStringList(value any) (any, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		list := make([]string, 0, len(v))
		for _, element := range v {
			switch e := element.(type) {
			case string:
				list = append(list, e)
			case int:
				list = append(list, strconv.Itoa(e))
			case int64:
				list = append(list, strconv.FormatInt(e, 10))
			case float64:
				if e != math.Trunc(e) {
					return nil, fmt.Errorf("expected string list, got fractional element %v", e)
				}
				list = append(list, strconv.FormatInt(int64(e), 10))
			default:
				return nil, fmt.Errorf("expected string list, got element of type %T", element)
			}
		}
		return list, nil
	}
	return nil, fmt.Errorf("expected string list, got %T", value)
}

// Bool returns the named field, or false when absent.
func (p Params) Bool(name string) bool {
	v, _ := p[name].(bool)
	return v
}

// Int returns the named field, or zero when absent.
func (p Params) Int(name string) int {
	v, _ := p[name].(int)
	return v
}

// Float returns the named field, or zero when absent.
func (p Params) Float(name string) float64 {
	v, _ := p[name].(float64)
	return v
}

// String returns the named field, or "" when absent.
func (p Params) String(name string) string {
	v, _ := p[name].(string)
	return v
}

// Strings returns the named field, or nil when absent.
func (p Params) Strings(name string) []string {
	v, _ := p[name].([]string)
	return v
}

// Summary formats the parameter set as "KEY=value" pairs in key order, for
// the job run report.
func (p Params) Summary() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, p[key]))
	}
	return strings.Join(parts, ", ")
}
