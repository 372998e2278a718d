package router

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Bind fills the tagged fields of the struct target points to. Fields tagged
// `param:"name"` take the path parameter of that name; `param:"*"` takes the
// wildcard remainder, split on "/" when the field is a []string. Fields
// tagged `query:"name"` take the first query value of that name.
//
//	var p struct {
//	    ID  int    `param:"id"`
//	    Tab string `query:"tab"`
//	}
//	err := ctx.Bind(&p)
//
// Absent parameters leave their field unchanged.
func (c *Context) Bind(target any) error {
	if target == nil {
		return nil
	}
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("router: Bind needs a pointer to a struct, got %T", target)
	}
	query := c.Query()

	for _, f := range reflect.VisibleFields(v.Elem().Type()) {
		if !f.IsExported() {
			continue
		}
		var (
			raw, name string
			ok        bool
		)
		if name = f.Tag.Get("param"); name != "" {
			raw, ok = c.Params[name]
		} else if name = f.Tag.Get("query"); name != "" {
			ok = query.Has(name)
			raw = query.Get(name)
		}
		if !ok {
			continue
		}
		if err := setFromString(v.Elem().FieldByIndex(f.Index), raw); err != nil {
			return fmt.Errorf("router: bind %s: %w", name, err)
		}
	}
	return nil
}

func setFromString(field reflect.Value, raw string) error {
	bits := field.Type().Bits
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err == nil {
			field.SetBool(b)
		}
		return err
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, bits())
		if err == nil {
			field.SetInt(n)
		}
		return err
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, bits())
		if err == nil {
			field.SetUint(n)
		}
		return err
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, bits())
		if err == nil {
			field.SetFloat(n)
		}
		return err
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			break
		}
		var segments []string
		if raw != "" {
			segments = strings.Split(raw, "/")
		}
		field.Set(reflect.ValueOf(segments))
		return nil
	}
	return fmt.Errorf("unsupported field type %s", field.Type())
}

// ParamInt returns a path parameter parsed as an int.
func (c *Context) ParamInt(name string) (int, error) {
	raw, ok := c.Params[name]
	if !ok {
		return 0, fmt.Errorf("router: no param %q", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("router: param %q: %w", name, err)
	}
	return n, nil
}
