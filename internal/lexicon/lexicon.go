// Package lexicon looks up English word senses and translates their
// definitions to Vietnamese.
package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/observability"
	"github.com/localnerve/lexideck/internal/translation"
	"github.com/localnerve/lexideck/internal/types"
	"golang.org/x/sync/errgroup"
)

// translateLimit bounds concurrent definition translations per lookup
const translateLimit = 4

// Sense is one meaning of a word.
type Sense struct {
	Definition       string   `json:"definition"`
	SourceDefinition string   `json:"source_definition"`
	Examples         []string `json:"examples"`
	Synonyms         []string `json:"synonyms"`
	PartOfSpeech     string   `json:"part_of_speech"`
}

var partsOfSpeech = map[string]string{
	"n":         models.WordClassNoun,
	"noun":      models.WordClassNoun,
	"v":         models.WordClassVerb,
	"verb":      models.WordClassVerb,
	"a":         models.WordClassAdjective,
	"adjective": models.WordClassAdjective,
	"r":         models.WordClassAdverb,
	"adverb":    models.WordClassAdverb,
	"s":         models.WordClassShortAdjective,
}

// PartOfSpeech maps a WordNet tag or dictionary name to a word class.
func PartOfSpeech(tag string) (string, bool) {
	class, ok := partsOfSpeech[strings.ToLower(strings.TrimSpace(tag))]
	return class, ok
}

// Client reads a dictionaryapi.dev compatible API.
type Client struct {
	URL        string
	HTTP       *http.Client
	Translator translation.Translator
}

// New builds a lookup client whose dictionary requests are bounded by timeout.
func New(baseURL string, timeout time.Duration, tr translation.Translator) *Client {
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		HTTP:       &http.Client{Timeout: timeout},
		Translator: tr,
	}
}

type dictEntry struct {
	Word     string        `json:"word"`
	Meanings []dictMeaning `json:"meanings"`
}

type dictMeaning struct {
	PartOfSpeech string           `json:"partOfSpeech"`
	Definitions  []dictDefinition `json:"definitions"`
	Synonyms     []string         `json:"synonyms"`
}

type dictDefinition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Examples   []string `json:"examples"`
	Synonyms   []string `json:"synonyms"`
}

// Lookup returns the senses of word with translated definitions.
// An unknown word yields an empty result.
func (c *Client) Lookup(ctx context.Context, word string) ([]Sense, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, types.Validation("Enter a word to look up.")
	}

	var entries []dictEntry
	err := observability.ObserveExternal(ctx, "dictionary", func(ctx context.Context) error {
		var err error
		entries, err = c.fetch(ctx, word)
		return err
	})
	if err != nil {
		return nil, err
	}

	senses := buildSenses(word, entries)
	if len(senses) == 0 {
		return []Sense{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(translateLimit)
	for i := range senses {
		g.Go(func() error {
			translated, err := translation.Translate(gctx, c.Translator, RewriteDates(senses[i].SourceDefinition))
			if err != nil {
				return err
			}
			senses[i].Definition = capitalize(translated)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if types.KindOf(err) == types.KindUnavailable {
			return nil, err
		}
		return nil, types.Unavailable("translation", err)
	}

	return senses, nil
}

func (c *Client) fetch(ctx context.Context, word string) ([]dictEntry, error) {
	endpoint := c.URL + "/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, types.Unavailable("dictionary", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, types.Unavailable("dictionary", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, types.Unavailable("dictionary", fmt.Errorf("status %d", resp.StatusCode))
	}

	var entries []dictEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&entries); err != nil {
		return nil, types.Unavailable("dictionary", fmt.Errorf("decode response: %w", err))
	}
	return entries, nil
}

// buildSenses flattens dictionary entries into senses with untranslated definitions.
func buildSenses(word string, entries []dictEntry) []Sense {
	senses := []Sense{}
	for _, entry := range entries {
		for _, meaning := range entry.Meanings {
			class, ok := PartOfSpeech(meaning.PartOfSpeech)
			if !ok {
				continue
			}
			for _, def := range meaning.Definitions {
				source := strings.TrimSpace(def.Definition)
				if source == "" {
					continue
				}
				synonyms := def.Synonyms
				if len(synonyms) == 0 {
					synonyms = meaning.Synonyms
				}
				senses = append(senses, Sense{
					SourceDefinition: source,
					Examples:         filterExamples(word, append([]string{def.Example}, def.Examples...)),
					Synonyms:         filterSynonyms(word, synonyms),
					PartOfSpeech:     class,
				})
			}
		}
	}
	return senses
}

// filterExamples keeps examples that contain word, case-insensitively.
func filterExamples(word string, examples []string) []string {
	needle := strings.ToLower(word)
	out := []string{}
	for _, ex := range examples {
		ex = strings.TrimSpace(ex)
		if ex == "" || !strings.Contains(strings.ToLower(ex), needle) {
			continue
		}
		out = append(out, capitalize(ex))
	}
	return out
}

// filterSynonyms drops the word itself and repeats, and turns lemma underscores into spaces.
func filterSynonyms(word string, synonyms []string) []string {
	seen := map[string]struct{}{strings.ToLower(word): {}}
	out := []string{}
	for _, syn := range synonyms {
		syn = strings.TrimSpace(strings.ReplaceAll(syn, "_", " "))
		key := strings.ToLower(syn)
		if syn == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, syn)
	}
	return out
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
