package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeParams fills a factory's input struct from an instance's manifest
// parameters. Struct fields opt in with a `cty:"name"` tag; untagged fields
// are ignored. Parameters with no matching field are rejected so that a typo
// in a manifest surfaces as a construction failure instead of being silently
// dropped. Fields with no matching parameter keep their zero value; required
// parameters are the factory's business to enforce.
func DecodeParams(params map[string]cty.Value, input any) error {
	if input == nil {
		if len(params) > 0 {
			return fmt.Errorf("factory takes no parameters, but %d given", len(params))
		}
		return nil
	}

	v := reflect.ValueOf(input)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("input must be a pointer to a struct, got %T", input)
	}

	structVal := v.Elem()
	structType := structVal.Type()
	fields := make(map[string]reflect.Value)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagName := strings.Split(field.Tag.Get("cty"), ",")[0]
		if tagName == "" || tagName == "-" {
			continue
		}
		fields[tagName] = structVal.Field(i)
	}

	for name, val := range params {
		fieldVal, ok := fields[name]
		if !ok {
			return fmt.Errorf("unsupported parameter %q", name)
		}
		want, err := gocty.ImpliedType(fieldVal.Interface())
		if err != nil {
			return fmt.Errorf("parameter %q: cannot imply manifest type for Go field type %s: %w", name, fieldVal.Type(), err)
		}
		// HCL literals arrive as tuples/objects; convert to the field's
		// list/map shape before decoding.
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		if err := gocty.FromCtyValue(converted, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return nil
}
