package profile

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/MoAI-tw/introscript/internal/prompt"
)

func TestIndustrySettings_AddKeyword(t *testing.T) {
	t.Run("appends in order", func(t *testing.T) {
		var s IndustrySettings
		s.AddKeyword("backend")
		s.AddKeyword("golang")
		if !reflect.DeepEqual(s.Keywords, []string{"backend", "golang"}) {
			t.Errorf("unexpected keywords: %v", s.Keywords)
		}
	})

	t.Run("duplicate is a no-op", func(t *testing.T) {
		s := IndustrySettings{Keywords: []string{"backend", "golang"}}
		s.AddKeyword("backend")
		if len(s.Keywords) != 2 {
			t.Errorf("expected 2 keywords, got %d", len(s.Keywords))
		}
		if !reflect.DeepEqual(s.Keywords, []string{"backend", "golang"}) {
			t.Errorf("contents changed: %v", s.Keywords)
		}
	})
}

func TestIndustrySettings_RemoveKeyword(t *testing.T) {
	s := IndustrySettings{Keywords: []string{"a", "b", "c"}}
	s.RemoveKeyword("b")
	if !reflect.DeepEqual(s.Keywords, []string{"a", "c"}) {
		t.Errorf("unexpected keywords: %v", s.Keywords)
	}

	s.RemoveKeyword("missing")
	if !reflect.DeepEqual(s.Keywords, []string{"a", "c"}) {
		t.Errorf("removing a missing keyword changed contents: %v", s.Keywords)
	}
}

func TestFormData_Clone(t *testing.T) {
	t.Run("nil receiver", func(t *testing.T) {
		var f *FormData
		if f.Clone() != nil {
			t.Error("expected nil clone of nil form")
		}
	})

	t.Run("shares no slices or maps", func(t *testing.T) {
		orig := &FormData{
			Personal: PersonalInfo{
				Name:           "王小明",
				Education:      []Education{{School: "NTU"}},
				WorkExperience: []WorkExperience{{Company: "Acme"}},
				Skills:         []Skill{{Name: "Go"}},
			},
			Industry: IndustrySettings{Keywords: []string{"backend"}},
		}
		orig.Generation.PromptTemplates = map[string]prompt.Template{
			"custom-1": {ID: "custom-1", Content: "Hi {name}"},
		}

		clone := orig.Clone()
		if !reflect.DeepEqual(clone, orig) {
			t.Fatalf("clone differs:\n got  %+v\n want %+v", clone, orig)
		}

		orig.Personal.Education[0].School = "edited"
		orig.Personal.WorkExperience[0].Company = "edited"
		orig.Personal.Skills[0].Name = "edited"
		orig.Industry.Keywords[0] = "edited"
		orig.Generation.PromptTemplates["custom-1"] = prompt.Template{ID: "edited"}

		if clone.Personal.Education[0].School != "NTU" ||
			clone.Personal.WorkExperience[0].Company != "Acme" ||
			clone.Personal.Skills[0].Name != "Go" {
			t.Error("clone shares personal slices with the original")
		}
		if clone.Industry.Keywords[0] != "backend" {
			t.Error("clone shares the keywords slice with the original")
		}
		if clone.Generation.PromptTemplates["custom-1"].ID != "custom-1" {
			t.Error("clone shares the template map with the original")
		}
	})
}

func TestFormData_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.yaml")
	form := &FormData{
		Personal: PersonalInfo{
			Name: "王小明",
			Age:  "28",
			Education: []Education{
				{School: "NTU", Degree: "BSc", Major: "CS", GraduationYear: "2020"},
			},
			Skills: []Skill{{Name: "Go", Level: "advanced"}},
		},
		Industry: IndustrySettings{
			Industry: "software",
			Keywords: []string{"backend"},
		},
		Generation: GenerationSettings{
			Duration: "60s",
			Language: "zh-TW",
		},
	}

	if err := SaveFile(path, form); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, form) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, form)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
