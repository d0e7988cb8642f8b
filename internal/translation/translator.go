// Package translation turns English text into Vietnamese through an
// external inference endpoint.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/localnerve/lexideck/internal/observability"
	"github.com/localnerve/lexideck/internal/types"
)

// Translator translates one piece of text
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Translate short-circuits blank input without calling t.
func Translate(ctx context.Context, t Translator, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", types.ErrNothingToTranslate
	}
	return t.Translate(ctx, text)
}

// HTTPTranslator calls a Hugging Face style text2text inference endpoint.
type HTTPTranslator struct {
	URL    string
	Token  string
	Client *http.Client
}

// NewHTTPTranslator builds a translator whose requests are bounded by timeout.
func NewHTTPTranslator(url, token string, timeout time.Duration) *HTTPTranslator {
	return &HTTPTranslator{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: timeout},
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceResult struct {
	TranslationText string `json:"translation_text"`
	GeneratedText   string `json:"generated_text"`
}

func (r inferenceResult) text() string {
	if r.TranslationText != "" {
		return r.TranslationText
	}
	return r.GeneratedText
}

// Translate implements Translator. Every failure is ServiceUnavailable.
func (h *HTTPTranslator) Translate(ctx context.Context, text string) (string, error) {
	var out string
	err := observability.ObserveExternal(ctx, "translation", func(ctx context.Context) error {
		var err error
		out, err = h.call(ctx, text)
		return err
	})
	return out, err
}

func (h *HTTPTranslator) call(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return "", types.Unavailable("translation", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return "", types.Unavailable("translation", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", types.Unavailable("translation", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", types.Unavailable("translation", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", types.Unavailable("translation", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 200)))
	}

	translated, err := parseInference(raw)
	if err != nil {
		return "", types.Unavailable("translation", err)
	}
	return translated, nil
}

// parseInference accepts a list of results or a single result object.
func parseInference(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var result inferenceResult
	if raw[0] == '[' {
		var list []inferenceResult
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(list) == 0 {
			return "", fmt.Errorf("empty result list")
		}
		result = list[0]
	} else if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := strings.TrimSpace(result.text())
	if text == "" {
		return "", fmt.Errorf("empty translation")
	}
	return text, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
