// Package fieldpath reads and writes document fields by dotted path.
//
// A [Path] is checked against the document schema when it is parsed, so a
// typo fails at [Parse] (or at init time for [MustParse] constants) instead
// of silently writing nowhere. [Get] tolerates missing list elements and map
// entries; [Set] creates them.
package fieldpath

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/plan"
)

var (
	ErrEmptyPath       = errors.New("empty field path")
	ErrUnknownField    = errors.New("unknown field")
	ErrIndexOutOfRange = errors.New("list index out of range")
	ErrTypeMismatch    = errors.New("value does not fit field")

	errNilDocument      = errors.New("nil document")
	errNotAnIndex       = errors.New("not a list index")
	errPathBeyondScalar = errors.New("path continues past a scalar field")
)

var (
	planType        = reflect.TypeFor[plan.Plan]()
	numberType      = reflect.TypeFor[plan.Number]()
	stringSliceType = reflect.TypeFor[[]string]()
)

// Path is a validated field path such as "trip.startDate" or
// "execution.dailyPlan.0.distance".
type Path struct {
	segs []string
	leaf reflect.Type
}

// Parse splits s on dots and checks every segment against the schema.
func Parse(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return Path{}, ErrEmptyPath
	}

	segs := strings.Split(s, ".")

	t := planType
	for i, seg := range segs {
		next, err := step(t, seg)
		if err != nil {
			return Path{}, fmt.Errorf("%w: %s (at %q): %w", ErrUnknownField, s, strings.Join(segs[:i+1], "."), err)
		}

		t = next
	}

	return Path{segs: segs, leaf: t}, nil
}

// MustParse is like [Parse] but panics on error. Use it for paths known at
// compile time.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return p
}

func (p Path) String() string {
	return strings.Join(p.segs, ".")
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segs...)
}

// Section returns the first segment, which names the document section.
func (p Path) Section() string {
	if len(p.segs) == 0 {
		return ""
	}

	return p.segs[0]
}

// Type returns the Go type of the field the path points at.
func (p Path) Type() reflect.Type {
	return p.leaf
}

// Equal reports whether p and o address the same field.
func (p Path) Equal(o Path) bool {
	return p.String() == o.String()
}

// Get returns the value at p. It reports false when a list index or map key
// along the way does not exist.
func Get(doc *plan.Plan, p Path) (any, bool) {
	if doc == nil || len(p.segs) == 0 {
		return nil, false
	}

	v := reflect.ValueOf(doc).Elem()

	for _, seg := range p.segs {
		switch v.Kind() {
		case reflect.Struct:
			i, ok := fieldIndex(v.Type(), seg)
			if !ok {
				return nil, false
			}

			v = v.Field(i)
		case reflect.Slice:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= v.Len() {
				return nil, false
			}

			v = v.Index(idx)
		case reflect.Map:
			if v.IsNil() {
				return nil, false
			}

			v = v.MapIndex(reflect.ValueOf(seg))
			if !v.IsValid() {
				return nil, false
			}
		default:
			return nil, false
		}
	}

	return v.Interface(), true
}

// GetString returns the value at p when it is a string-kinded field.
func GetString(doc *plan.Plan, p Path) string {
	v, ok := Get(doc, p)
	if !ok {
		return ""
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return ""
	}

	return rv.String()
}

// Set assigns value at p, creating a missing map entry or appending a list
// element when the index equals the list length. Values of a different Go
// type are converted through their JSON form.
func Set(doc *plan.Plan, p Path, value any) error {
	if doc == nil {
		return errNilDocument
	}

	if len(p.segs) == 0 {
		return ErrEmptyPath
	}

	err := setAt(reflect.ValueOf(doc).Elem(), p.segs, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}

	return nil
}

// SetText parses text for the field's kind and assigns it. Strings are taken
// verbatim, booleans and integers are parsed, string lists accept either a
// JSON array or comma-separated items, and anything else must be JSON.
func SetText(doc *plan.Plan, p Path, text string) error {
	if len(p.segs) == 0 {
		return ErrEmptyPath
	}

	value, err := parseText(p.leaf, text)
	if err != nil {
		return fmt.Errorf("set %s: %w: %w", p, ErrTypeMismatch, err)
	}

	return Set(doc, p, value)
}

func parseText(t reflect.Type, text string) (any, error) {
	switch {
	case t == numberType:
		return plan.Number(strings.TrimSpace(text)), nil
	case t.Kind() == reflect.String:
		return text, nil
	case t.Kind() == reflect.Bool:
		return strconv.ParseBool(strings.TrimSpace(text))
	case t.Kind() == reflect.Int:
		return strconv.Atoi(strings.TrimSpace(text))
	case t == stringSliceType && !strings.HasPrefix(strings.TrimSpace(text), "["):
		items := []string{}

		for item := range strings.SplitSeq(text, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		return items, nil
	default:
		ptr := reflect.New(t)

		err := json.Unmarshal([]byte(text), ptr.Interface())
		if err != nil {
			return nil, err
		}

		return ptr.Elem().Interface(), nil
	}
}

func setAt(v reflect.Value, segs []string, value any) error {
	if len(segs) == 0 {
		return assign(v, value)
	}

	seg, rest := segs[0], segs[1:]

	switch v.Kind() {
	case reflect.Struct:
		i, ok := fieldIndex(v.Type(), seg)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, seg)
		}

		return setAt(v.Field(i), rest, value)

	case reflect.Slice:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownField, seg)
		}

		if idx > v.Len() {
			return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, idx, v.Len())
		}

		if idx == v.Len() {
			v.Set(reflect.Append(v, reflect.Zero(v.Type().Elem())))
		}

		return setAt(v.Index(idx), rest, value)

	case reflect.Map:
		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}

		key := reflect.ValueOf(seg)
		elem := reflect.New(v.Type().Elem()).Elem()

		if existing := v.MapIndex(key); existing.IsValid() {
			elem.Set(existing)
		}

		err := setAt(elem, rest, value)
		if err != nil {
			return err
		}

		v.SetMapIndex(key, elem)

		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, seg)
	}
}

func assign(v reflect.Value, value any) error {
	if value == nil {
		v.Set(reflect.Zero(v.Type()))

		return nil
	}

	rv := reflect.ValueOf(value)

	if rv.Type().AssignableTo(v.Type()) {
		v.Set(rv)

		return nil
	}

	if rv.Kind() == v.Kind() && rv.Type().ConvertibleTo(v.Type()) {
		v.Set(rv.Convert(v.Type()))

		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}

	target := reflect.New(v.Type())

	err = json.Unmarshal(data, target.Interface())
	if err != nil {
		return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, value, v.Type())
	}

	v.Set(target.Elem())

	return nil
}

func step(t reflect.Type, seg string) (reflect.Type, error) {
	switch t.Kind() {
	case reflect.Struct:
		i, ok := fieldIndex(t, seg)
		if !ok {
			return nil, errors.New("no such field")
		}

		return t.Field(i).Type, nil
	case reflect.Slice:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 {
			return nil, errNotAnIndex
		}

		return t.Elem(), nil
	case reflect.Map:
		if seg == "" {
			return nil, errors.New("empty map key")
		}

		return t.Elem(), nil
	default:
		return nil, errPathBeyondScalar
	}
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := range t.NumField() {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if tag == name && tag != "" && tag != "-" {
			return i, true
		}
	}

	return -1, false
}
