package docbuilder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/philippweder/wine-shop/internal/sommelier/schema"
)

// importantFields is the fixed, ordered allow-list of catalog fields that make
// up a document's text. Fields missing from a record are omitted from the
// rendering; the order here is the order of the lines in the text blob.
var importantFields = []string{
	"name", "brand_name", "varietal", "description", "food_pairing",
	"region", "sub_region", "type", "vintage", "alcohol_content", "price",
	"country", "aroma", "taste", "winemaking", "awards",
	"serving_temperature", "storage_potential",
}

// Build converts catalog records, given as mappings of non-null fields, into
// documents ready for embedding. One document is produced per record, in input
// order; an empty input yields an empty output.
func Build(records []map[string]interface{}) []*schema.Document {
	docs := make([]*schema.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, buildOne(record))
	}
	return docs
}

func buildOne(record map[string]interface{}) *schema.Document {
	var lines []string
	for _, field := range importantFields {
		value, ok := record[field]
		if !ok {
			continue
		}
		rendered := renderValue(value)
		if rendered == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", fieldLabel(field), rendered))
	}

	sourceID := sourceIDOf(record)

	metadata := make(map[string]interface{}, len(record)+1)
	metadata[schema.MetadataKeySourceID] = sourceID
	for key, value := range record {
		if value == nil {
			continue
		}
		metadata[key] = value
	}

	return &schema.Document{
		ID:       sourceID,
		Text:     strings.Join(lines, "\n"),
		Metadata: metadata,
	}
}

// sourceIDOf derives the stable back-reference to the originating record. A
// record without a primary key gets a synthetic placeholder so the document is
// still addressable.
func sourceIDOf(record map[string]interface{}) string {
	if id, ok := record["id"]; ok && id != nil {
		return fmt.Sprintf("%v", id)
	}
	return "wine_" + uuid.NewString()
}

// fieldLabel turns a snake_case field name into the human-readable label used
// in the text blob, e.g. "food_pairing" -> "Food pairing".
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// renderValue formats a field value for the text blob. List values are joined
// with ", "; nil and empty values render as "" and are skipped by the caller.
func renderValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
