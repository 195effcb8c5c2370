package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"

	"github.com/yuin/goldmark"
)

// MaxResources caps the links returned with a suggestion.
const MaxResources = 3

const suggestionPrompt = `You are a Go learning expert. Create a complete learning suggestion for: "%s"

Include:
- Topic name
- Detailed explanation (why important, key concepts)
- 2-3 YouTube video resources WITH DIRECT LINKS

Format as clean Markdown:
---
## Learning Topic: [Name]

### Explanation:
[Detailed explanation...]

### Video Resources:
1. **[Title]**
   https://www.youtube.com/watch?v=VIDEO_ID

2. **[Title]**
   https://www.youtube.com/watch?v=VIDEO_ID

3. **[Title]**
   https://www.youtube.com/watch?v=VIDEO_ID
---
`

const interpretPrompt = `%s.
Reply with only the result, no preamble.

Text: %s`

var videoLinkPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})([a-zA-Z0-9_-]?)`)

type LearningService struct {
	generator TextGenerator
	markdown  goldmark.Markdown
}

func NewLearningService(generator TextGenerator) *LearningService {
	return &LearningService{
		generator: generator,
		markdown:  goldmark.New(),
	}
}

// Suggest never fails: vendor errors produce an empty suggestion.
func (s *LearningService) Suggest(ctx context.Context, userInput string) *domain.SuggestionResponse {
	logger := contextutil.LoggerFromContext(ctx)
	empty := &domain.SuggestionResponse{Resources: []string{}}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(suggestionPrompt, userInput))
	if err != nil {
		logger.Error("Learning suggestion failed", "error", err)
		return empty
	}
	text = strings.TrimSpace(text)

	links := ExtractVideoLinks(text)
	logger.Info("Found valid video links", "count", len(links))

	if len(links) > 0 {
		var sb strings.Builder
		sb.WriteString(text)
		sb.WriteString("\n\n### Extracted Links:\n")
		for i, link := range links {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- " + link)
		}
		text = sb.String()
	}

	return &domain.SuggestionResponse{
		Suggestion:     text,
		SuggestionHTML: s.render(ctx, text),
		Resources:      links,
	}
}

func (s *LearningService) render(ctx context.Context, text string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		contextutil.LoggerFromContext(ctx).Warn("Markdown rendering failed", "error", err)
		return ""
	}
	return buf.String()
}

// Interpret rewrites text per instruction, returning text unchanged if generation fails.
func (s *LearningService) Interpret(ctx context.Context, text, instruction string) string {
	out, err := s.generator.Generate(ctx, fmt.Sprintf(interpretPrompt, instruction, text))
	if err != nil {
		contextutil.LoggerFromContext(ctx).Warn("Text interpretation failed", "error", err)
		return text
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}

// ExtractVideoLinks returns canonical YouTube watch URLs found in text, deduplicated in
// first-seen order and capped at MaxResources. Links written as "https//" are repaired
// and collected after the well-formed ones.
func ExtractVideoLinks(text string) []string {
	links := make([]string, 0, MaxResources)
	seen := make(map[string]bool)

	collect := func(src string) {
		for _, m := range videoLinkPattern.FindAllStringSubmatch(src, -1) {
			if len(links) == MaxResources {
				return
			}
			if m[2] != "" {
				continue
			}
			link := "https://www.youtube.com/watch?v=" + m[1]
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
	}

	collect(text)
	collect(strings.ReplaceAll(text, "https//", "https://"))

	return links
}
