package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/banachtech/phoenix/termsheet"
)

// Extractor prompts a provider chunk by chunk and merges the answers into
// one Document. Merging works on raw JSON objects so fields the schema
// does not know about flow through to the noise-tolerant document parser.
type Extractor struct {
	provider    Provider
	chunkSize   int
	maxTokens   int
	temperature float64
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithChunkSize sets the chunking threshold in characters.
func WithChunkSize(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature. Extraction wants 0.
func WithTemperature(t float64) ExtractorOption {
	return func(e *Extractor) {
		e.temperature = t
	}
}

// NewExtractor wraps a provider with the default chunking settings.
func NewExtractor(p Provider, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		provider:  p,
		chunkSize: 4000,
		maxTokens: 4000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract turns raw term-sheet text into a Document. Long documents are
// split on paragraph boundaries and each chunk is extracted separately; a
// failed chunk is skipped as long as at least one chunk succeeds.
func (e *Extractor) Extract(ctx context.Context, text string) (termsheet.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return termsheet.Document{}, fmt.Errorf("empty term sheet text")
	}
	chunks := splitText(text, e.chunkSize)

	merged := map[string]any{}
	extracted := 0
	var lastErr error
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return termsheet.Document{}, err
		}
		raw, err := e.provider.Complete(ctx, Request{
			System:      systemPrompt,
			User:        extractionPrompt(chunk),
			MaxTokens:   e.maxTokens,
			Temperature: e.temperature,
		})
		if err != nil {
			lastErr = err
			continue
		}
		fields, err := decodeObject(raw)
		if err != nil {
			lastErr = err
			continue
		}
		mergeInto(merged, fields)
		extracted++
	}
	if extracted == 0 {
		return termsheet.Document{}, fmt.Errorf("no chunk produced an extraction: %w", lastErr)
	}

	normalizeUnderlyings(merged)
	fixStructureType(merged)

	buf, err := json.Marshal(merged)
	if err != nil {
		return termsheet.Document{}, fmt.Errorf("encode merged extraction: %w", err)
	}
	return termsheet.ParseDocument(buf)
}

// splitText breaks text into chunks of at most chunkSize characters,
// preferring paragraph boundaries so clauses stay intact. Paragraphs
// longer than a chunk are hard-split.
func splitText(text string, chunkSize int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}
	var chunks []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			chunks = append(chunks, s)
		}
		b.Reset()
	}
	for _, p := range strings.Split(text, "\n\n") {
		if len(p) > chunkSize {
			flush()
			for start := 0; start < len(p); start += chunkSize {
				chunks = append(chunks, p[start:min(start+chunkSize, len(p))])
			}
			continue
		}
		if b.Len() > 0 && b.Len()+len(p)+2 > chunkSize {
			flush()
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p)
	}
	flush()
	return chunks
}

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// decodeObject parses a completion into a JSON object, tolerating
// markdown fences and prose around the object.
func decodeObject(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil {
		return fields, nil
	}
	if m := objectPattern.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), &fields); err == nil {
			return fields, nil
		}
	}
	return nil, fmt.Errorf("completion is not a JSON object: %.120s", raw)
}

func emptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// mergeInto folds one chunk's fields into the running result. Scalars:
// first non-empty wins, longer strings win. Objects fill in missing
// subfields. Lists append unseen items; conditional coupons dedupe on
// their trigger condition.
func mergeInto(dst, src map[string]any) {
	for key, value := range src {
		if emptyValue(value) {
			continue
		}
		existing, ok := dst[key]
		if !ok {
			dst[key] = value
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			e, ok := existing.(map[string]any)
			if !ok {
				continue
			}
			for sk, sv := range v {
				if emptyValue(sv) {
					continue
				}
				if cur, ok := e[sk]; !ok || emptyValue(cur) {
					e[sk] = sv
				}
			}
		case []any:
			if e, ok := existing.([]any); ok {
				dst[key] = mergeLists(key, e, v)
			}
		case string:
			if cur, ok := existing.(string); ok && len(v) > len(cur) {
				dst[key] = v
			}
		}
	}
}

func mergeLists(key string, dst, src []any) []any {
	if key == "conditional_coupons" {
		seen := make(map[string]bool, len(dst))
		for _, item := range dst {
			seen[couponKey(item)] = true
		}
		for _, item := range src {
			if k := couponKey(item); !seen[k] {
				dst = append(dst, item)
				seen[k] = true
			}
		}
		return dst
	}
	for _, item := range src {
		if !containsValue(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}

func couponKey(item any) string {
	if m, ok := item.(map[string]any); ok {
		if cond, ok := m["trigger_condition"].(string); ok && cond != "" {
			return cond
		}
	}
	return fmt.Sprint(item)
}

func containsValue(list []any, item any) bool {
	for _, v := range list {
		if reflect.DeepEqual(v, item) {
			return true
		}
	}
	return false
}

var genericNames = map[string]bool{
	"underlying":       true,
	"underlying index": true,
	"underlying asset": true,
	"underlying share": true,
	"index":            true,
	"share":            true,
	"stock":            true,
	"asset":            true,
	"instrument":       true,
}

// normalizeUnderlyings deduplicates the underlyings list: chunk overlap
// makes the same asset show up twice, often with different completeness.
// Same normalised name means same asset; numeric fields and identifiers
// from later duplicates fill gaps in the first sighting.
func normalizeUnderlyings(result map[string]any) {
	raw, ok := result["underlyings"].([]any)
	if !ok {
		return
	}
	var order []string
	byName := map[string]map[string]any{}

	for _, item := range raw {
		u, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := u["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" || genericNames[normalizeName(name)] {
			continue
		}
		key := normalizeName(name)
		entry, ok := byName[key]
		if !ok {
			entry = map[string]any{"name": name}
			byName[key] = entry
			order = append(order, key)
		}
		for field, value := range u {
			if emptyValue(value) || value == "not specified" || value == "N/A" {
				continue
			}
			cur, exists := entry[field]
			switch {
			case !exists:
				entry[field] = value
			case isNumber(value):
				entry[field] = value
			case field == "ticker" || field == "isin":
				entry[field] = value
			case field == "name":
				if s, ok := value.(string); ok {
					if curName, _ := cur.(string); len(s) > len(curName) {
						entry[field] = s
					}
				}
			}
		}
	}

	out := make([]any, 0, len(order))
	for _, key := range order {
		out = append(out, byName[key])
	}
	result["underlyings"] = out
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, json.Number:
		return true
	}
	return false
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, ".", "")
	n = strings.ReplaceAll(n, ",", "")
	for _, suffix := range []string{" inc", " corp", " corporation", " ltd"} {
		n = strings.ReplaceAll(n, suffix, "")
	}
	return strings.Join(strings.Fields(n), " ")
}

// fixStructureType applies the deterministic rule when the model left the
// classification blank or unknown: one underlying means single, more mean
// worst_of.
func fixStructureType(result map[string]any) {
	current, _ := result["structure_type"].(string)
	current = strings.ToLower(strings.TrimSpace(current))
	if current != "" && current != "unknown" {
		return
	}
	unds, _ := result["underlyings"].([]any)
	switch {
	case len(unds) == 1:
		result["structure_type"] = termsheet.StructureSingle
	case len(unds) > 1:
		result["structure_type"] = termsheet.StructureWorstOf
	}
}
