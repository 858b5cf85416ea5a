// Package jsonld builds schema.org structured data for generated pages.
package jsonld

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

const (
	schemaContext = "https://schema.org"
	DefaultType   = "WebPage"
)

// Input carries the base fields and the unit values a variant may read.
type Input struct {
	Type        string
	Name        string
	Description string
	URL         string
	Image       string
	Values      domain.Row
}

// Variant augments the base document for one schema type.
type Variant func(in Input, doc map[string]any)

var variants = map[string]Variant{
	"LocalBusiness": localBusiness,
	"Product":       product,
	"JobPosting":    jobPosting,
	"Service":       service,
}

// Build returns the JSON-LD document for in. Unknown types only carry the
// base fields.
func Build(in Input) map[string]any {
	schemaType := strings.TrimSpace(in.Type)
	if schemaType == "" {
		schemaType = DefaultType
	}
	doc := map[string]any{
		"@context":    schemaContext,
		"@type":       schemaType,
		"name":        in.Name,
		"description": in.Description,
	}
	if in.URL != "" {
		doc["url"] = in.URL
	}
	image := in.Image
	if image == "" {
		image = lookup(in.Values, "image", "Image", "image_url", "photo")
	}
	if image != "" {
		doc["image"] = image
	}
	if variant, ok := variants[schemaType]; ok {
		variant(in, doc)
	}
	return doc
}

// Marshal encodes the document for in without HTML escaping.
func Marshal(in Input) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Build(in)); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Script wraps markup in a JSON-LD script tag. Empty markup yields "".
func Script(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	return `<script type="application/ld+json">` + markup + `</script>`
}

func localBusiness(in Input, doc map[string]any) {
	if address := lookup(in.Values, "address", "Address", "location", "Location", "city", "City"); address != "" {
		doc["address"] = address
	}
	if phone := lookup(in.Values, "telephone", "phone", "Phone", "Telephone"); phone != "" {
		doc["telephone"] = phone
	}
	addRating(in.Values, doc)
}

func product(in Input, doc map[string]any) {
	if price := NumericPrice(lookup(in.Values, "price", "Price")); price != "" {
		offer := map[string]any{
			"@type": "Offer",
			"price": price,
		}
		if currency := lookup(in.Values, "currency", "Currency", "price_currency"); currency != "" {
			offer["priceCurrency"] = currency
		}
		doc["offers"] = offer
	}
	addRating(in.Values, doc)
}

func jobPosting(in Input, doc map[string]any) {
	if org := lookup(in.Values, "company", "Company", "organization", "hiring_organization", "employer"); org != "" {
		doc["hiringOrganization"] = map[string]any{"@type": "Organization", "name": org}
	}
	if location := lookup(in.Values, "location", "Location", "city", "City", "address"); location != "" {
		doc["jobLocation"] = map[string]any{"@type": "Place", "address": location}
	}
}

func service(in Input, doc map[string]any) {
	if term := lookup(in.Values, "search_term", "service", "Service"); term != "" {
		doc["serviceType"] = term
	}
	if location := lookup(in.Values, "location", "Location", "city", "City"); location != "" {
		doc["areaServed"] = location
	}
}

func addRating(values domain.Row, doc map[string]any) {
	rating := lookup(values, "rating", "Rating", "aggregate_rating")
	if rating == "" {
		return
	}
	aggregate := map[string]any{
		"@type":       "AggregateRating",
		"ratingValue": rating,
	}
	if count := lookup(values, "review_count", "reviews", "reviewCount", "Reviews"); count != "" {
		aggregate["reviewCount"] = count
	}
	doc["aggregateRating"] = aggregate
}

// NumericPrice keeps the digits and decimal point of a price string.
func NumericPrice(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

func lookup(values domain.Row, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(values.String(key)); value != "" {
			return value
		}
	}
	return ""
}
