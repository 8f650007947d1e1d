package cache

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Namespace prefixes every key written by this service.
const Namespace = "catalog"

// Key identifies a cached response by operation name and parameters.
type Key struct {
	// Operation is the logical read operation (e.g. "products_list").
	Operation string

	// Params are the normalized request parameters. Absent values (nil,
	// nil pointers, empty strings, empty slices) are dropped.
	Params map[string]any
}

// String generates a deterministic cache key string.
// Format: catalog:operation:name1=value1:name2=value2
//
// Parameters are sorted by name, values are query-escaped so separators in
// user input cannot collide, and list values are de-duplicated, sorted and
// comma-joined.
//
// Example:
//
//	catalog:products_list:category=Books:page=1:page_size=50:tags=new,sale
func (k Key) String() string {
	parts := []string{Namespace, k.Operation}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, ok := formatValue(reflect.ValueOf(k.Params[name]))
		if !ok {
			continue
		}
		parts = append(parts, name+"="+value)
	}

	return strings.Join(parts, ":")
}

// Prefix returns the prefix shared by every key of the operation.
func (k Key) Prefix() string {
	return OperationPrefix(k.Operation)
}

// OperationPrefix returns the prefix shared by every key of op.
func OperationPrefix(op string) string {
	return Namespace + ":" + op + ":"
}

// formatValue renders a parameter value, reporting false when the value is
// absent.
func formatValue(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return "", false
		}
		return formatValue(v.Elem())
	case reflect.Slice, reflect.Array:
		return formatList(v)
	case reflect.String:
		if v.Len() == 0 {
			return "", false
		}
		return url.QueryEscape(v.String()), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	default:
		return url.QueryEscape(fmt.Sprint(v.Interface())), true
	}
}

// formatList canonicalizes a list so equivalent orderings share one key.
func formatList(v reflect.Value) (string, bool) {
	seen := make(map[string]struct{}, v.Len())
	items := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item, ok := formatValue(v.Index(i))
		if !ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	if len(items) == 0 {
		return "", false
	}
	sort.Strings(items)
	return strings.Join(items, ","), true
}
