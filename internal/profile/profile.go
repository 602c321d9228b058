// Package profile holds the structured form state that feeds generation:
// personal background, industry targeting, and generation settings. The JSON
// field names match the persisted wire format, so a history snapshot taken
// from these types replays byte-identically.
package profile

import "github.com/MoAI-tw/introscript/internal/prompt"

// Education is one schooling entry.
type Education struct {
	School         string `json:"school" yaml:"school"`
	Degree         string `json:"degree" yaml:"degree"`
	Major          string `json:"major" yaml:"major"`
	GraduationYear string `json:"graduationYear" yaml:"graduation_year"`
}

// WorkExperience is one employment entry.
type WorkExperience struct {
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	StartDate   string `json:"startDate" yaml:"start_date"`
	EndDate     string `json:"endDate" yaml:"end_date"`
	IsCurrent   bool   `json:"isCurrent" yaml:"is_current"`
	Description string `json:"description" yaml:"description"`
}

// Skill is a named skill with a proficiency level.
type Skill struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
}

// PersonalInfo is the user's biographical data. Fields are replaced whole;
// there is no partial in-place edit tracking.
type PersonalInfo struct {
	Name           string           `json:"name" yaml:"name"`
	Age            string           `json:"age" yaml:"age"`
	Education      []Education      `json:"education" yaml:"education"`
	WorkExperience []WorkExperience `json:"workExperience" yaml:"work_experience"`
	Skills         []Skill          `json:"skills" yaml:"skills"`
	Projects       string           `json:"projects" yaml:"projects"`
	Awards         string           `json:"awards" yaml:"awards"`
	Interests      string           `json:"interests" yaml:"interests"`
}

// IndustrySettings targets the introduction at an industry and role.
// Keywords are ordered but deduplicated.
type IndustrySettings struct {
	Industry         string   `json:"industry" yaml:"industry"`
	JobCategory      string   `json:"jobCategory" yaml:"job_category"`
	JobSubcategory   string   `json:"jobSubcategory" yaml:"job_subcategory"`
	SpecificPosition string   `json:"specificPosition" yaml:"specific_position"`
	Keywords         []string `json:"keywords" yaml:"keywords"`
}

// AddKeyword appends a keyword, preserving order. Adding an already-present
// keyword is a no-op.
func (s *IndustrySettings) AddKeyword(keyword string) {
	for _, k := range s.Keywords {
		if k == keyword {
			return
		}
	}
	s.Keywords = append(s.Keywords, keyword)
}

// RemoveKeyword removes a keyword if present.
func (s *IndustrySettings) RemoveKeyword(keyword string) {
	for i, k := range s.Keywords {
		if k == keyword {
			s.Keywords = append(s.Keywords[:i], s.Keywords[i+1:]...)
			return
		}
	}
}

// GenerationSettings controls how the introduction script is produced.
type GenerationSettings struct {
	Duration     string `json:"duration" yaml:"duration"`
	Language     string `json:"language" yaml:"language"`
	Style        string `json:"style" yaml:"style"`
	Structure    string `json:"structure" yaml:"structure"`
	Tone         string `json:"tone" yaml:"tone"`
	OutputLength string `json:"outputLength" yaml:"output_length"`

	IncludeProjects  bool `json:"includeProjects" yaml:"include_projects"`
	IncludeAwards    bool `json:"includeAwards" yaml:"include_awards"`
	IncludeInterests bool `json:"includeInterests" yaml:"include_interests"`

	UseCustomPrompt bool   `json:"useCustomPrompt" yaml:"use_custom_prompt"`
	PromptTemplate  string `json:"promptTemplate" yaml:"prompt_template"`
	ActivePromptID  string `json:"activePromptId" yaml:"active_prompt_id"`

	PromptTemplates map[string]prompt.Template `json:"promptTemplates" yaml:"prompt_templates"`
}

// FormData bundles the full form state captured at generation time.
type FormData struct {
	Personal   PersonalInfo       `json:"personalInfo" yaml:"personal_info"`
	Industry   IndustrySettings   `json:"industrySettings" yaml:"industry_settings"`
	Generation GenerationSettings `json:"generationSettings" yaml:"generation_settings"`
}

// Clone returns a deep copy sharing no slices or maps with the receiver.
// Archived snapshots use it so later form edits cannot reach them.
func (f *FormData) Clone() *FormData {
	if f == nil {
		return nil
	}
	out := *f

	out.Personal.Education = append([]Education(nil), f.Personal.Education...)
	out.Personal.WorkExperience = append([]WorkExperience(nil), f.Personal.WorkExperience...)
	out.Personal.Skills = append([]Skill(nil), f.Personal.Skills...)
	out.Industry.Keywords = append([]string(nil), f.Industry.Keywords...)

	if f.Generation.PromptTemplates != nil {
		templates := make(map[string]prompt.Template, len(f.Generation.PromptTemplates))
		for id, t := range f.Generation.PromptTemplates {
			templates[id] = t
		}
		out.Generation.PromptTemplates = templates
	}
	return &out
}
