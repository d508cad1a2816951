package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nutriplan/internal/llm"

	"github.com/PuerkitoBio/goquery"
)

// Extractor imports recipes from web pages: it fetches a page, strips it down
// to readable text, and asks an LLM for the structured recipe data.
type Extractor struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewExtractor creates a new Extractor instance.
func NewExtractor(textGen llm.TextGenerator) *Extractor {
	return &Extractor{
		textGen: textGen,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ExtractFromURL fetches the URL and extracts a structured recipe from it.
// The returned recipe has no id assigned.
func (e *Extractor) ExtractFromURL(ctx context.Context, url string) (*Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	text, err := readableText(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return e.ExtractFromText(ctx, text)
}

// ExtractFromText asks the LLM for structured recipe data from page text.
func (e *Extractor) ExtractFromText(ctx context.Context, text string) (*Recipe, error) {
	prompt := fmt.Sprintf(`
You are a nutrition data extraction expert. Extract the recipe details from the following page text.
Estimate calories and macros per serving when they are not stated explicitly.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "calories": 450,
  "protein": 30,
  "carbs": 40,
  "fat": 15,
  "tags": ["lunch", "main course"]
}

Valid tags: vegetarian, vegan, lunch, dinner, post-workout, pre-workout, soup, dairy, fruit, healthy, breakfast, main course.
Do not include any other text or formatting in your response.

Page text:
%s
`, text)

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	raw, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to recover recipe JSON: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse extracted recipe: %w", err)
	}
	if rec.Title == "" {
		return nil, fmt.Errorf("extracted recipe has no title")
	}

	return &rec, nil
}

// readableText strips scripts, styles and page chrome, returning body text.
func readableText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
