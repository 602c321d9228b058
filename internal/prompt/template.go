// Package prompt provides the template substitution engine and the persistent
// prompt template store.
//
// Templates are plain strings with {placeholder} tokens. The store keeps a
// named collection of templates with one structurally protected "default"
// entry and an "active" pointer that always resolves to a present template.
package prompt

// DefaultTemplateID is the id of the protected built-in template.
// It always exists and can never be deleted.
const DefaultTemplateID = "default"

// Template is a reusable prompt template.
type Template struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Content      string `json:"content" yaml:"content"`
	SystemPrompt string `json:"systemPrompt,omitempty" yaml:"system_prompt,omitempty"`
}

// defaultTemplateContent is the built-in self-introduction template seeded on
// first run.
const defaultTemplateContent = `Write a spoken self-introduction script in {language}.

Speaker background:
- Name: {name}
- Age: {age}
- Education:
{education}
- Work experience:
{workExperience}
- Skills:
{skills}
- Projects: {projects}
- Awards: {awards}
- Interests: {interests}

Target role:
- Industry: {industry}
- Job category: {jobCategory} / {jobSubcategory}
- Position: {specificPosition}
- Keywords to emphasize: {keywords}

Delivery requirements:
- Duration: {duration}
- Style: {style}
- Structure: {structure}
- Tone: {tone}
- Output length: {outputLength}

Write the script in the first person as continuous spoken prose, ready to be
read aloud. Do not include headings, bullet points, or stage directions.`

// DefaultTemplate returns a fresh copy of the built-in default template.
func DefaultTemplate() Template {
	return Template{
		ID:          DefaultTemplateID,
		Name:        "Standard introduction",
		Description: "Built-in template covering background, target role, and delivery requirements.",
		Content:     defaultTemplateContent,
	}
}
