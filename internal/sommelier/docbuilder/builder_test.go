package docbuilder

import (
	"strings"
	"testing"
)

func sampleRecord() map[string]interface{} {
	return map[string]interface{}{
		"id":           uint(42),
		"name":         "Cloudy Bay Sauvignon Blanc",
		"type":         "White",
		"varietal":     "Sauvignon Blanc",
		"price":        29.90,
		"food_pairing": "grilled fish",
		"image_url":    "/images/white-wine.png",
	}
}

func TestBuild_TextUsesAllowListOrder(t *testing.T) {
	docs := Build([]map[string]interface{}{sampleRecord()})
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}

	lines := strings.Split(docs[0].Text, "\n")
	expected := []string{
		"Name: Cloudy Bay Sauvignon Blanc",
		"Varietal: Sauvignon Blanc",
		"Food pairing: grilled fish",
		"Type: White",
		"Price: 29.9",
	}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %q", len(expected), len(lines), docs[0].Text)
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("Line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

func TestBuild_TextExcludesNonAllowListFields(t *testing.T) {
	docs := Build([]map[string]interface{}{sampleRecord()})

	if strings.Contains(docs[0].Text, "image_url") || strings.Contains(docs[0].Text, "Image url") {
		t.Errorf("Text blob should not contain fields outside the allow-list: %q", docs[0].Text)
	}
	// But metadata keeps every non-null field.
	if _, ok := docs[0].Metadata["image_url"]; !ok {
		t.Error("Metadata should contain image_url")
	}
}

func TestBuild_OmitsNullFields(t *testing.T) {
	record := sampleRecord()
	// vintage intentionally absent, description explicitly nil
	record["description"] = nil

	docs := Build([]map[string]interface{}{record})
	doc := docs[0]

	if strings.Contains(doc.Text, "Vintage:") {
		t.Errorf("Text blob should not contain a Vintage line: %q", doc.Text)
	}
	if strings.Contains(doc.Text, "Description:") {
		t.Errorf("Text blob should not contain a Description line: %q", doc.Text)
	}
	if _, ok := doc.Metadata["vintage"]; ok {
		t.Error("Metadata should not contain vintage")
	}
	if _, ok := doc.Metadata["description"]; ok {
		t.Error("Metadata should not contain description")
	}
}

func TestBuild_ListValuesJoined(t *testing.T) {
	record := sampleRecord()
	record["varietal"] = []string{"Grenache", "Cinsault", "Rolle"}

	docs := Build([]map[string]interface{}{record})
	if !strings.Contains(docs[0].Text, "Varietal: Grenache, Cinsault, Rolle") {
		t.Errorf("List values should be joined with \", \": %q", docs[0].Text)
	}
}

func TestBuild_SourceID(t *testing.T) {
	docs := Build([]map[string]interface{}{sampleRecord()})
	if got := docs[0].Metadata["source_id"]; got != "42" {
		t.Errorf("Expected source_id \"42\", got %v", got)
	}
	if docs[0].ID != "42" {
		t.Errorf("Expected document ID \"42\", got %q", docs[0].ID)
	}
}

func TestBuild_SyntheticSourceID(t *testing.T) {
	record := sampleRecord()
	delete(record, "id")

	docs := Build([]map[string]interface{}{record})
	id, ok := docs[0].Metadata["source_id"].(string)
	if !ok || !strings.HasPrefix(id, "wine_") {
		t.Errorf("Expected synthetic source_id with wine_ prefix, got %v", docs[0].Metadata["source_id"])
	}
}

func TestBuild_OrderPreservingAndEmptyInput(t *testing.T) {
	if docs := Build(nil); len(docs) != 0 {
		t.Errorf("Empty input should yield empty output, got %d documents", len(docs))
	}

	first := sampleRecord()
	second := sampleRecord()
	second["id"] = uint(43)
	second["name"] = "Masi Costasera Amarone"

	docs := Build([]map[string]interface{}{first, second})
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "42" || docs[1].ID != "43" {
		t.Errorf("Documents should preserve input order, got IDs %q, %q", docs[0].ID, docs[1].ID)
	}
}
