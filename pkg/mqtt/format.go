package mqtt

import (
	"fmt"
	"path"
	"strconv"
	"time"
)

// StateTopic returns the topic, relative to the prefix, holding the state of
// an attribute of an item. Path levels of the item are kept.
func StateTopic(item string, attribute string) string {
	return path.Join(item, attribute, State)
}

// FormatValue renders a value as published on the state topics. Absent
// optional values (nil pointers) are published as an empty payload.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case *int:
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
