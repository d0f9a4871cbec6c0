package service

import (
	"context"
	"reflect"
	"testing"

	"vintervu/internal/session"
)

// stubExtractor returns a fixed text for any upload.
type stubExtractor struct {
	text string
}

func (s stubExtractor) ExtractText(content []byte, format string) string { return s.text }

// stubGateway returns canned values without touching the network.
type stubGateway struct {
	profile   Profile
	questions []string
	projectQs []string
	followUp  string
	eval      session.Evaluation
}

func (s stubGateway) ExtractProfile(ctx context.Context, resumeText string) Profile {
	return s.profile
}

func (s stubGateway) GenerateQuestions(ctx context.Context, skills []string, projects []session.Project, branch string, asked []string) []string {
	return s.questions
}

func (s stubGateway) GenerateProjectQuestions(ctx context.Context, projects []session.Project, skills []string) []string {
	return s.projectQs
}

func (s stubGateway) GenerateFollowUp(ctx context.Context, lastAnswer string, skills []string) string {
	return s.followUp
}

func (s stubGateway) EvaluateAnswer(ctx context.Context, question, answer string) session.Evaluation {
	return s.eval
}

func TestInferBranch(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		want   string
	}{
		{"software skills", []string{"Python", "React"}, "Computer Science"},
		{"case and spacing ignored", []string{"  MATLAB  "}, "Electronics"},
		{"electrical skills", []string{"PLC", "SCADA"}, "Electrical"},
		{"civil skills", []string{"AutoCAD"}, "Civil"},
		{"mechanical skills", []string{"Thermodynamics"}, "Mechanical"},
		{"first matching branch wins", []string{"Python", "Thermodynamics"}, "Computer Science"},
		{"nothing recognized", []string{"Esperanto"}, "General Engineering"},
		{"no skills", nil, "General Engineering"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferBranch(tt.skills); got != tt.want {
				t.Errorf("InferBranch(%v) = %q, want %q", tt.skills, got, tt.want)
			}
		})
	}
}

func TestAnalyzeSkillsForRole(t *testing.T) {
	skills := []string{"Python", "SQL", "Excel"}
	analysis := analyzeSkillsForRole(skills, "Data Analyst")

	wantFound := []string{"excel", "sql", "python"}
	if !reflect.DeepEqual(analysis.FoundKeywords, wantFound) {
		t.Errorf("FoundKeywords = %v, want %v", analysis.FoundKeywords, wantFound)
	}
	wantMissing := []string{"power bi", "tableau", "pandas"}
	if !reflect.DeepEqual(analysis.MissingKeywords, wantMissing) {
		t.Errorf("MissingKeywords = %v, want %v", analysis.MissingKeywords, wantMissing)
	}
	if analysis.Score != 50.0 {
		t.Errorf("Score = %v, want 50.0", analysis.Score)
	}
	if len(analysis.Suggestions) != len(wantMissing) {
		t.Errorf("Suggestions count = %d, want %d", len(analysis.Suggestions), len(wantMissing))
	}
}

func TestAnalyzeSkillsForRole_UnknownRole(t *testing.T) {
	analysis := analyzeSkillsForRole([]string{"Python"}, "Astronaut")
	if analysis.Score != 0 || len(analysis.FoundKeywords) != 0 || len(analysis.MissingKeywords) != 0 {
		t.Errorf("unknown role should yield an empty analysis, got %+v", analysis)
	}
}

func TestProcessResume_CachesProfile(t *testing.T) {
	gateway := stubGateway{profile: Profile{Skills: []string{"Python", "SQL"}}}
	svc := NewResumeService(stubExtractor{text: "resume text"}, gateway)

	profile, err := svc.ProcessResume(context.Background(), "a@example.com", []byte("x"), "pdf")
	if err != nil {
		t.Fatalf("ProcessResume() error = %v", err)
	}
	if profile.Branch != "Computer Science" {
		t.Errorf("Branch = %q, want Computer Science", profile.Branch)
	}

	cached, ok := svc.ProfileFor("a@example.com")
	if !ok || !reflect.DeepEqual(cached, profile) {
		t.Errorf("ProfileFor() = (%+v, %v), want the processed profile", cached, ok)
	}
	if _, ok := svc.ProfileFor("b@example.com"); ok {
		t.Error("ProfileFor() returned a profile for an identity that never uploaded")
	}

	svc.ClearProfile("a@example.com")
	if _, ok := svc.ProfileFor("a@example.com"); ok {
		t.Error("ClearProfile() did not remove the cached profile")
	}
}

func TestProcessResume_EmptyExtraction(t *testing.T) {
	svc := NewResumeService(stubExtractor{text: ""}, stubGateway{})
	if _, err := svc.ProcessResume(context.Background(), "a@example.com", []byte("x"), "pdf"); err != ErrExtractionFailed {
		t.Errorf("ProcessResume() error = %v, want ErrExtractionFailed", err)
	}
	if _, ok := svc.ProfileFor("a@example.com"); ok {
		t.Error("failed extraction must not cache a profile")
	}
}
