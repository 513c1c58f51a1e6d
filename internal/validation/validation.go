// Package validation loads raw request payloads against strict field rule tables.
//
// Every problem is reported, keyed by field name, with marshmallow-style
// messages so existing clients keep receiving the same error bodies.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired     = "Missing data for required field."
	MsgNull         = "Field may not be null."
	MsgString       = "Not a valid string."
	MsgInteger      = "Not a valid integer."
	MsgBoolean      = "Not a valid boolean."
	MsgEmail        = "Not a valid email address."
	MsgPattern      = "String does not match expected pattern."
	MsgUnknown      = "Unknown field."
	MsgInvalidInput = "Invalid input type."

	// SchemaKey holds errors that concern the payload as a whole.
	SchemaKey = "_schema"
)

// NamePattern is the pattern shared by usernames and passwords.
var NamePattern = regexp.MustCompile(`^[\p{L}\p{N}\p{M}_-]+$`)

var validate = validator.New()

type Kind int

const (
	String Kind = iota
	Integer
	Boolean
	Email
)

type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Min      int
	Max      int
	Pattern  *regexp.Regexp
}

// Errors maps a field name to all of its validation messages.
type Errors map[string][]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) add(field, message string) {
	e[field] = append(e[field], message)
}

func invalidInput() Errors {
	return Errors{SchemaKey: {MsgInvalidInput}}
}

type Schema struct {
	fields []Field
	byName map[string]Field
}

func NewSchema(fields ...Field) *Schema {
	s := &Schema{fields: fields, byName: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.byName[f.Name] = f
	}
	return s
}

// Decode validates a JSON object body and stores the cleaned values in dst.
// An absent body, malformed JSON or anything but an object is an input type error.
func (s *Schema) Decode(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return invalidInput()
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return invalidInput()
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return invalidInput()
	}

	cleaned, err := s.Validate(values)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return fmt.Errorf("encode cleaned payload: %w", err)
	}
	if err := json.Unmarshal(encoded, dst); err != nil {
		return fmt.Errorf("decode cleaned payload: %w", err)
	}
	return nil
}

// Validate checks values against the schema and returns them converted to
// their declared kinds. The returned error is always an Errors value.
func (s *Schema) Validate(values map[string]any) (map[string]any, error) {
	errs := Errors{}
	cleaned := make(map[string]any, len(values))

	for name := range values {
		if _, known := s.byName[name]; !known {
			errs.add(name, MsgUnknown)
		}
	}

	for _, f := range s.fields {
		value, present := values[f.Name]
		if !present {
			if f.Required {
				errs.add(f.Name, MsgRequired)
			}
			continue
		}
		if value == nil {
			errs.add(f.Name, MsgNull)
			continue
		}

		converted, messages := f.check(value)
		if len(messages) > 0 {
			errs[f.Name] = append(errs[f.Name], messages...)
			continue
		}
		cleaned[f.Name] = converted
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cleaned, nil
}

func (f Field) check(value any) (any, []string) {
	switch f.Kind {
	case Integer:
		n, ok := toInteger(value)
		if !ok {
			return nil, []string{MsgInteger}
		}
		return n, nil
	case Boolean:
		b, ok := value.(bool)
		if !ok {
			return nil, []string{MsgBoolean}
		}
		return b, nil
	}

	str, ok := value.(string)
	if !ok {
		return nil, []string{MsgString}
	}

	var messages []string
	if f.Kind == Email && validate.Var(str, "email") != nil {
		messages = append(messages, MsgEmail)
	}
	if f.Min > 0 && validate.Var(str, fmt.Sprintf("min=%d", f.Min)) != nil {
		messages = append(messages, fmt.Sprintf("Shorter than minimum length %d.", f.Min))
	}
	if f.Max > 0 && validate.Var(str, fmt.Sprintf("max=%d", f.Max)) != nil {
		messages = append(messages, fmt.Sprintf("Longer than maximum length %d.", f.Max))
	}
	if f.Pattern != nil && !f.Pattern.MatchString(str) {
		messages = append(messages, MsgPattern)
	}
	return str, messages
}

func toInteger(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return toInteger(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
