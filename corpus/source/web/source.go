package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/w-h-a/swimbench/corpus"
)

var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]+>`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)
)

type webSource struct {
	client *http.Client
}

func (s *webSource) Fetch(ctx context.Context, ref string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", err
	}

	rsp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %s", ref, rsp.Status)
	}

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", err
	}

	return extractText(string(body)), nil
}

// extractText is a crude markup strip; good enough to hand the chunker
// paragraphs of prose.
func extractText(raw string) string {
	text := scriptPattern.ReplaceAllString(raw, " ")
	text = tagPattern.ReplaceAllString(text, "\n")
	text = spacePattern.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); len(trimmed) > 0 {
			lines = append(lines, trimmed)
		}
	}

	return strings.Join(lines, "\n\n")
}

func NewSource() corpus.Source {
	return &webSource{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}
