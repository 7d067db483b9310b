package vision

import (
	"fmt"
	"strings"
)

// tagFocusInstruction steers descriptive-tag generation toward concrete UI
// vocabulary instead of marketing language.
const tagFocusInstruction = `Focus on:
- Specific UI components (button, form, modal, navigation bar, card, list, etc)
- Screen type (login, signup, profile, settings, dashboard, etc)
- Interactions (empty state, error state, loading, success message, etc)
- Layout patterns (sidebar, grid, tabs, drawer, etc)

IMPORTANT: Use spaces between words, not hyphens. For example: "navigation bar" not "navigation-bar", "login screen" not "login-screen".`

// ProjectTagsPrompt asks for 5-10 shared thematic tags across a set of
// screenshots from one project. The response is expected as JSON but must be
// treated as untrusted free text.
func ProjectTagsPrompt(projectName string) string {
	return fmt.Sprintf(`Analyze these UI screenshots from the project %q.

Identify COMMON themes, patterns, and characteristics shared across these interfaces.
Focus on:
1) Shared design patterns or UI elements that appear multiple times
2) Common functionality or features
3) Overall design style or methodology
4) Target audience or use case

Return a JSON object with a single key "project_tags" containing an array of 5-10 common tags.
Tags should be lowercase, concise, and focused on SHARED characteristics.

IMPORTANT: Use spaces between words, NOT hyphens. Example: "mobile first" not "mobile-first"

Example: {"project_tags": ["mobile first", "dark mode", "social features", "card based layout", "onboarding flow"]}

Respond with JSON only, no additional text.`, projectName)
}

// ImageTagsPrompt asks for structured data about a single screenshot, with
// the project tags as context and a vocabulary hint list.
func ImageTagsPrompt(projectTags, vocabulary []string) string {
	projectContext := "No project context"
	if len(projectTags) > 0 {
		projectContext = strings.Join(projectTags, ", ")
	}
	if len(vocabulary) > 20 {
		vocabulary = vocabulary[:20]
	}

	return fmt.Sprintf(`Analyze this UI screenshot and extract structured information.

%s

Context: This image is part of a project with these tags: %s

Vocabulary suggestions (use when relevant): %s

Return a JSON object with exactly these keys:
1. "company_name": The company or brand name visible in the UI (if identifiable, otherwise "")
2. "product_category": The type of product/app (e.g., "mobile banking app", "e-commerce website", "productivity tool")
3. "descriptive_tags": An array of 8-12 specific UI element and feature tags

IMPORTANT: Tags should use spaces between words, NOT hyphens. Example: ["login screen", "navigation bar", "blue color scheme"] not ["login-screen", "navigation-bar", "blue-color-scheme"]

Example response:
{
  "company_name": "Chase Bank",
  "product_category": "mobile banking app",
  "descriptive_tags": [
    "login screen", "two factor auth", "biometric login", "minimalist design",
    "blue color scheme", "sans serif typography", "centered layout",
    "secure badge", "mobile first", "ios design"
  ]
}

Respond with JSON only, no additional text.`, tagFocusInstruction, projectContext, strings.Join(vocabulary, ", "))
}
