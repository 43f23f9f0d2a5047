// Package search turns free-text investigator queries into substring-match keywords.
package search

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"evidenceapi/internal/ai"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "in": {}, "at": {}, "on": {}, "of": {},
	"for": {}, "with": {}, "show": {}, "me": {}, "anyone": {}, "person": {}, "wearing": {},
}

var punctuation = strings.NewReplacer(".", "", ",", "", "?", "")

// FallbackKeywords is the deterministic tokenizer used when the AI service is unavailable:
// lowercase, strip punctuation, split on whitespace, drop stop words. Order and
// duplicates are preserved.
func FallbackKeywords(query string) []string {
	words := strings.Fields(punctuation.Replace(strings.ToLower(query)))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Translation is the keyword set for one query and where it came from.
type Translation struct {
	Keywords []string `json:"keywords"`
	Fallback bool     `json:"fallback"`
}

// Translator resolves keywords through the AI service and falls back to
// FallbackKeywords on any failure. Successful AI translations are cached.
type Translator struct {
	extractor ai.KeywordExtractor
	cache     *lru.Cache[string, []string]
	log       *slog.Logger
}

// NewTranslator builds a Translator. cacheSize <= 0 disables caching.
// A nil extractor always uses the fallback.
func NewTranslator(extractor ai.KeywordExtractor, cacheSize int, logger *slog.Logger) (*Translator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Translator{extractor: extractor, log: logger}
	if cacheSize > 0 {
		c, err := lru.New[string, []string](cacheSize)
		if err != nil {
			return nil, err
		}
		t.cache = c
	}
	return t, nil
}

// Translate returns the keywords for query. It never fails; an empty query yields no keywords.
func (t *Translator) Translate(ctx context.Context, query string) Translation {
	query = strings.TrimSpace(query)
	if query == "" {
		return Translation{Keywords: []string{}}
	}
	if t.cache != nil {
		if kws, ok := t.cache.Get(query); ok {
			return Translation{Keywords: append([]string(nil), kws...)}
		}
	}
	if t.extractor != nil {
		kws, err := t.extractor.ExtractKeywords(ctx, query)
		if err == nil {
			kws = normalize(kws)
			if t.cache != nil {
				t.cache.Add(query, kws)
			}
			t.log.DebugContext(ctx, "search_keywords_extracted", slog.Any("keywords", kws))
			return Translation{Keywords: append([]string(nil), kws...)}
		}
		t.log.WarnContext(ctx, "search_translation_fallback", slog.String("error", err.Error()))
	}
	return Translation{Keywords: FallbackKeywords(query), Fallback: true}
}

func normalize(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
