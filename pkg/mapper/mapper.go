// Package mapper translates the raw documents returned by the multiMATIC API
// into the domain model.
//
// Conventions:
//   - functions returning a single entity return nil (and no error) when the
//     document or the section they read is missing or empty;
//   - functions returning a collection always return a non-nil slice and skip
//     the elements they cannot map;
//   - a present section holding values of the wrong type yields a
//     *MappingError.
//
// All functions are pure and safe for concurrent use.
package mapper

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Document is a decoded JSON response as returned by encoding/json.
type Document = map[string]interface{}

const dateLayout = "2006-01-02"

// MappingError is returned when a section of a document is present but
// cannot be decoded.
type MappingError struct {
	Entity string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("error mapping %s: %s", e.Entity, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// decode maps a raw sub tree into the given raw structure.
func decode[T any](entity string, input interface{}) (*T, error) {
	res := new(T)
	config := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           res,
		WeaklyTypedInput: true,
		ErrorUnset:       false,
		DecodeHook:       mapstructure.StringToTimeHookFunc(dateLayout),
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, fmt.Errorf("error building decoder: %w", err)
	}
	if err = decoder.Decode(input); err != nil {
		return nil, &MappingError{Entity: entity, Err: err}
	}
	return res, nil
}

// lookup walks the document following the given keys. It returns nil as soon
// as a key is missing or an intermediate value is not an object.
func lookup(doc interface{}, keys ...string) interface{} {
	current := doc
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// lookupList is lookup for values expected to be arrays. Anything else is
// treated as an empty list.
func lookupList(doc interface{}, keys ...string) []interface{} {
	list, ok := lookup(doc, keys...).([]interface{})
	if !ok {
		return []interface{}{}
	}
	return list
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	case string:
		return v == ""
	default:
		return false
	}
}

// unwrapBody returns the content of the "body" attribute for single entity
// responses, or the document itself when it is not wrapped.
func unwrapBody(raw Document) Document {
	if body, ok := raw["body"].(map[string]interface{}); ok {
		return body
	}
	return raw
}

// toTime converts an epoch timestamp in milliseconds. Sub-second precision is
// dropped.
func toTime(epochMillis int64) time.Time {
	return time.Unix(epochMillis/1000, 0)
}
