package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"cv-site/internal/model"
)

// FormatValue renders a raw field value for display according to its
// config. Empty input of any kind yields "".
func FormatValue(v any, f FieldConfig) string {
	if isEmpty(v) {
		return ""
	}
	switch f.Type {
	case FieldDate:
		s := fmt.Sprint(v)
		if f.Format == DateFormatYearMonth {
			return FormatDate(s)
		}
		return s
	case FieldList:
		items, ok := asItems(v)
		if !ok {
			return fmt.Sprint(v)
		}
		return joinItems(items, listItemText)
	case FieldArray:
		items, ok := asItems(v)
		if !ok {
			return fmt.Sprint(v)
		}
		return joinItems(items, arrayItemText)
	case FieldObject:
		if s, ok := v.(string); ok {
			return s
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}

// asItems flattens the slice types the model uses into []any.
func asItems(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		return toAny(t), true
	case []model.Achievement:
		return toAny(t), true
	case []model.Technology:
		return toAny(t), true
	case []model.Course:
		return toAny(t), true
	case []model.Skill:
		return toAny(t), true
	case []map[string]string:
		return toAny(t), true
	}
	return nil, false
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func joinItems(items []any, text func(any) string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = text(it)
	}
	return strings.Join(parts, ", ")
}

// listItemText prefers an item's text, then its name.
func listItemText(item any) string {
	switch t := item.(type) {
	case string:
		return t
	case model.Achievement:
		return t.Text
	case model.Technology:
		return t.Name
	case model.Course:
		return t.Name
	case model.Skill:
		return t.Name
	case map[string]string:
		if s := t["text"]; s != "" {
			return s
		}
		if s := t["name"]; s != "" {
			return s
		}
		return fmt.Sprint(t)
	case map[string]any:
		if s, ok := t["text"].(string); ok && s != "" {
			return s
		}
		if s, ok := t["name"].(string); ok && s != "" {
			return s
		}
		return fmt.Sprint(t)
	}
	return fmt.Sprint(item)
}

// arrayItemText renders "name (level)" for leveled items.
func arrayItemText(item any) string {
	switch t := item.(type) {
	case model.Skill:
		if t.Name != "" && t.Level != "" {
			return fmt.Sprintf("%s (%s)", t.Name, t.Level)
		}
		return t.String()
	case map[string]string:
		if t["name"] != "" && t["level"] != "" {
			return fmt.Sprintf("%s (%s)", t["name"], t["level"])
		}
		return fmt.Sprint(t)
	case map[string]any:
		name, _ := t["name"].(string)
		level, _ := t["level"].(string)
		if name != "" && level != "" {
			return fmt.Sprintf("%s (%s)", name, level)
		}
		return fmt.Sprint(t)
	}
	return fmt.Sprint(item)
}
