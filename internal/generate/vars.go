package generate

import (
	"fmt"
	"strings"

	"github.com/MoAI-tw/introscript/internal/profile"
)

// FlattenVars turns structured form state into the flat variable map the
// template engine substitutes from. Nested entries become human-readable
// lines: one line per education or work entry, comma-joined skills and
// keywords. Optional sections honor their include flags and flatten to the
// empty string when switched off.
func FlattenVars(form *profile.FormData) map[string]string {
	vars := map[string]string{
		"name": form.Personal.Name,
		"age":  form.Personal.Age,

		"education":      flattenEducation(form.Personal.Education),
		"workExperience": flattenWork(form.Personal.WorkExperience),
		"skills":         flattenSkills(form.Personal.Skills),

		"industry":         form.Industry.Industry,
		"jobCategory":      form.Industry.JobCategory,
		"jobSubcategory":   form.Industry.JobSubcategory,
		"specificPosition": form.Industry.SpecificPosition,
		"keywords":         strings.Join(form.Industry.Keywords, ", "),

		"duration":     form.Generation.Duration,
		"language":     form.Generation.Language,
		"style":        form.Generation.Style,
		"structure":    form.Generation.Structure,
		"tone":         form.Generation.Tone,
		"outputLength": form.Generation.OutputLength,
	}

	vars["projects"] = ""
	if form.Generation.IncludeProjects {
		vars["projects"] = form.Personal.Projects
	}
	vars["awards"] = ""
	if form.Generation.IncludeAwards {
		vars["awards"] = form.Personal.Awards
	}
	vars["interests"] = ""
	if form.Generation.IncludeInterests {
		vars["interests"] = form.Personal.Interests
	}

	return vars
}

func flattenEducation(entries []profile.Education) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.School == "" && e.Degree == "" && e.Major == "" {
			continue
		}
		line := e.School
		if e.Degree != "" || e.Major != "" {
			line += fmt.Sprintf(", %s %s", e.Degree, e.Major)
		}
		if e.GraduationYear != "" {
			line += fmt.Sprintf(" (%s)", e.GraduationYear)
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

func flattenWork(entries []profile.WorkExperience) string {
	lines := make([]string, 0, len(entries))
	for _, w := range entries {
		if w.Company == "" && w.Position == "" {
			continue
		}
		end := w.EndDate
		if w.IsCurrent {
			end = "present"
		}
		line := fmt.Sprintf("%s at %s (%s - %s)", w.Position, w.Company, w.StartDate, end)
		if w.Description != "" {
			line += ": " + w.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func flattenSkills(skills []profile.Skill) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Name == "" {
			continue
		}
		if s.Level != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", s.Name, s.Level))
		} else {
			parts = append(parts, s.Name)
		}
	}
	return strings.Join(parts, ", ")
}
