package reasons

import (
	"fmt"
	"strings"

	"shopmate/internal/models"
)

// DefaultBatchPrompt asks for every site's reason in a single JSON object.
const DefaultBatchPrompt = `You are a helpful shopping assistant.
User's query: "{{QUERY}}"
Detected category: "{{CATEGORY}}"

Below is a list of websites and their typical strengths. For EACH website, write ONE short sentence (<=22 words) explaining WHY it's a good choice specifically for this user's query and context (consider the Indian market and budget hints if present).

Websites:
{{WEBSITES}}

Output rules:
- Return a VALID JSON object only, no markdown or extra text.
- Keys MUST be exactly the website names from the list above.
- Values are the one-sentence reasons.

Example format:
{
  "Amazon India": "Reason here.",
  "Flipkart": "Reason here."
}`

// DefaultSitePrompt asks for a single sentence about one site.
const DefaultSitePrompt = `You are a helpful shopping assistant for India. Given a user shopping query, a product category, and a website, write ONE short, specific sentence (max 25 words) explaining why the site is a good place to buy. Be factual. Don't invent prices or stock. If budget is mentioned, suggest using filters/deals.

User query: {{QUERY}}
Category: {{CATEGORY}}
Website: {{SITE_NAME}} ({{SITE_URL}})
Strengths: {{STRENGTHS}}
Answer:`

func renderBatchPrompt(tmpl, query, category string, sites []models.Site) string {
	lines := make([]string, 0, len(sites))
	for _, s := range sites {
		lines = append(lines, fmt.Sprintf("- %s: %s", s.Name, strengthsText(s)))
	}
	prompt := tmpl
	prompt = strings.ReplaceAll(prompt, "{{QUERY}}", query)
	prompt = strings.ReplaceAll(prompt, "{{CATEGORY}}", category)
	prompt = strings.ReplaceAll(prompt, "{{WEBSITES}}", strings.Join(lines, "\n"))
	return prompt
}

func renderSitePrompt(tmpl, query, category string, site models.Site) string {
	prompt := tmpl
	prompt = strings.ReplaceAll(prompt, "{{QUERY}}", query)
	prompt = strings.ReplaceAll(prompt, "{{CATEGORY}}", category)
	prompt = strings.ReplaceAll(prompt, "{{SITE_NAME}}", site.Name)
	prompt = strings.ReplaceAll(prompt, "{{SITE_URL}}", site.URL)
	prompt = strings.ReplaceAll(prompt, "{{STRENGTHS}}", strengthsText(site))
	return prompt
}

func strengthsText(s models.Site) string {
	if len(s.Strengths) == 0 {
		return "general strengths"
	}
	return strings.Join(s.Strengths, ", ")
}
