package reasons

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"shopmate/internal/models"
)

// parseBatch decodes a batch answer. It is all-or-nothing: anything other
// than a JSON object with exactly one non-empty string per site is rejected.
// Each value is reduced to its first sentence, as per-site answers are.
func parseBatch(raw string, sites []models.Site, splitter *sentenceSplitter) (map[string]string, error) {
	content := stripCodeFence(strings.TrimSpace(raw))

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response as JSON: %v\nResponse content: %s", models.ErrMalformedModelOutput, err, content)
	}
	if parsed == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", models.ErrMalformedModelOutput)
	}

	allowed := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		allowed[s.Name] = struct{}{}
	}

	out := make(map[string]string, len(parsed))
	for key, value := range parsed {
		if _, ok := allowed[key]; !ok {
			return nil, fmt.Errorf("%w: unknown website %q", models.ErrMalformedModelOutput, key)
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return nil, fmt.Errorf("%w: reason for %q is not a string", models.ErrMalformedModelOutput, key)
		}
		text = splitter.First(text)
		if text == "" {
			return nil, fmt.Errorf("%w: empty reason for %q", models.ErrMalformedModelOutput, key)
		}
		out[key] = text
	}
	for _, s := range sites {
		if _, ok := out[s.Name]; !ok {
			return nil, fmt.Errorf("%w: missing reason for %q", models.ErrMalformedModelOutput, s.Name)
		}
	}
	return out, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

type sentenceSplitter struct {
	mu        sync.Mutex
	tokenizer *sentences.DefaultSentenceTokenizer
}

func newSentenceSplitter() (*sentenceSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &sentenceSplitter{tokenizer: tokenizer}, nil
}

// First returns the first sentence of text, terminated with punctuation.
// It returns "" when text holds no words.
func (s *sentenceSplitter) First(text string) string {
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if text == "" {
		return ""
	}

	s.mu.Lock()
	sents := s.tokenizer.Tokenize(text)
	s.mu.Unlock()

	first := text
	for _, sent := range sents {
		if t := strings.TrimSpace(sent.Text); t != "" {
			first = t
			break
		}
	}
	first = strings.Join(strings.Fields(first), " ")
	if first == "" {
		return ""
	}
	switch first[len(first)-1] {
	case '.', '!', '?':
		return first
	}
	return first + "."
}
