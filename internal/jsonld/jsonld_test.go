package jsonld

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen/internal/domain"
)

func TestBuildFallsBackToBaseFields(t *testing.T) {
	doc := Build(Input{Type: "Recipe", Name: "Soup", Description: "Warm", Values: domain.Row{"price": "$3"}})
	if doc["@type"] != "Recipe" || doc["name"] != "Soup" {
		t.Fatalf("unexpected base document %v", doc)
	}
	if _, ok := doc["offers"]; ok {
		t.Fatalf("did not expect product fields on unknown type")
	}
	if _, ok := doc["url"]; ok {
		t.Fatalf("did not expect empty url")
	}
}

func TestBuildDefaultsType(t *testing.T) {
	if doc := Build(Input{Name: "x"}); doc["@type"] != DefaultType {
		t.Fatalf("expected default type, got %v", doc["@type"])
	}
}

func TestLocalBusinessVariant(t *testing.T) {
	doc := Build(Input{
		Type: "LocalBusiness",
		Name: "Joe's",
		Values: domain.Row{
			"city":    "Austin",
			"phone":   "555-1234",
			"rating":  4.5,
			"reviews": 12,
		},
	})
	if doc["address"] != "Austin" || doc["telephone"] != "555-1234" {
		t.Fatalf("unexpected local business fields %v", doc)
	}
	rating, ok := doc["aggregateRating"].(map[string]any)
	if !ok || rating["ratingValue"] != "4.5" || rating["reviewCount"] != "12" {
		t.Fatalf("unexpected rating %v", doc["aggregateRating"])
	}
}

func TestProductVariantStripsCurrency(t *testing.T) {
	doc := Build(Input{Type: "Product", Name: "Lamp", Values: domain.Row{"price": "$1,299.00 USD"}})
	offer, ok := doc["offers"].(map[string]any)
	if !ok || offer["price"] != "1299.00" {
		t.Fatalf("unexpected offer %v", doc["offers"])
	}
}

func TestJobPostingVariant(t *testing.T) {
	doc := Build(Input{Type: "JobPosting", Values: domain.Row{"company": "Acme", "location": "Remote"}})
	org, _ := doc["hiringOrganization"].(map[string]any)
	place, _ := doc["jobLocation"].(map[string]any)
	if org["name"] != "Acme" || place["address"] != "Remote" {
		t.Fatalf("unexpected job posting %v", doc)
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	markup, err := Marshal(Input{Type: "Service", Name: "A & B", URL: "https://x.com/a?b=1&c=2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(markup, "A & B") || !strings.Contains(markup, "b=1&c=2") {
		t.Fatalf("expected raw ampersands, got %s", markup)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(markup), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if Script("") != "" {
		t.Fatalf("expected empty script for empty markup")
	}
}
