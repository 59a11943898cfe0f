package notion

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ExtractPropertyValue renders a type-tagged property object as a display
// string. Every known tag has a defined rendering; unrecognized tags fall
// back to the JSON encoding of the value under the tag so that schema
// additions degrade gracefully instead of aborting a listing.
func ExtractPropertyValue(prop map[string]any) string {
	tag, _ := prop["type"].(string)

	switch tag {
	case "title", "rich_text":
		return joinPlainText(prop[tag])

	case "number":
		if f, ok := prop["number"].(float64); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""

	case "select", "status":
		return optionName(prop[tag])

	case "multi_select":
		return joinField(prop["multi_select"], "name")

	case "date":
		date, ok := prop["date"].(map[string]any)
		if !ok {
			return ""
		}
		start, _ := date["start"].(string)
		if end, ok := date["end"].(string); ok && end != "" {
			return start + " - " + end
		}
		return start

	case "checkbox":
		if b, ok := prop["checkbox"].(bool); ok && b {
			return "true"
		}
		return "false"

	case "url", "email", "phone_number", "created_time", "last_edited_time":
		if s, ok := prop[tag].(string); ok {
			return s
		}
		return ""

	case "formula", "rollup":
		nested, ok := prop[tag].(map[string]any)
		if !ok {
			return ""
		}
		return scalarString(nested[fmt.Sprint(nested["type"])])

	case "relation":
		return joinField(prop["relation"], "id")

	case "people":
		return joinNameOrID(prop["people"])

	case "files":
		return joinField(prop["files"], "name")

	case "created_by", "last_edited_by":
		return nameOrID(prop[tag])

	case "unique_id":
		uid, ok := prop["unique_id"].(map[string]any)
		if !ok {
			return ""
		}
		number := scalarString(uid["number"])
		if prefix, ok := uid["prefix"].(string); ok && prefix != "" {
			return prefix + "-" + number
		}
		return number

	default:
		value, ok := prop[tag]
		if !ok || value == nil {
			return `""`
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// FlattenProperties renders every property of a page record to its display
// string, keyed by property name.
func FlattenProperties(properties map[string]any) map[string]string {
	result := make(map[string]string, len(properties))
	for name, value := range properties {
		prop, ok := value.(map[string]any)
		if !ok {
			result[name] = ""
			continue
		}
		result[name] = ExtractPropertyValue(prop)
	}
	return result
}

// ExtractTitle returns the first title property's concatenated plain text.
func ExtractTitle(properties map[string]any) string {
	for _, value := range properties {
		prop, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if tag, _ := prop["type"].(string); tag != "title" {
			continue
		}
		if text := joinPlainText(prop["title"]); text != "" {
			return text
		}
	}
	return ""
}

// ExtractBlockText returns the concatenated plain text of the rich-text-like
// array under a block's type tag, or empty when the block carries none.
func ExtractBlockText(block map[string]any) string {
	tag, _ := block["type"].(string)
	content, ok := block[tag].(map[string]any)
	if !ok {
		return ""
	}

	if arr, ok := content["rich_text"]; ok {
		return joinPlainText(arr)
	}
	return joinPlainText(content["text"])
}

// joinPlainText concatenates the plain_text runs of a rich text array.
func joinPlainText(value any) string {
	arr, ok := value.([]any)
	if !ok {
		return ""
	}

	var text string
	for _, item := range arr {
		if run, ok := item.(map[string]any); ok {
			if s, ok := run["plain_text"].(string); ok {
				text += s
			}
		}
	}
	return text
}

// joinField comma-joins the named string field of each element.
func joinField(value any, field string) string {
	arr, ok := value.([]any)
	if !ok {
		return ""
	}

	var result string
	for i, item := range arr {
		if i > 0 {
			result += ", "
		}
		if obj, ok := item.(map[string]any); ok {
			if s, ok := obj[field].(string); ok {
				result += s
			}
		}
	}
	return result
}

func joinNameOrID(value any) string {
	arr, ok := value.([]any)
	if !ok {
		return ""
	}

	var result string
	for i, item := range arr {
		if i > 0 {
			result += ", "
		}
		result += nameOrID(item)
	}
	return result
}

// nameOrID prefers a display name and falls back to the id.
// optionName returns the selected option's name, or "" for a null option.
func optionName(value any) string {
	obj, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := obj["name"].(string)
	return name
}

func nameOrID(value any) string {
	obj, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	if name, ok := obj["name"].(string); ok && name != "" {
		return name
	}
	if id, ok := obj["id"].(string); ok {
		return id
	}
	return ""
}

// scalarString renders a JSON scalar the way the display layer expects:
// numbers without a trailing ".0", booleans as "true"/"false".
func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
