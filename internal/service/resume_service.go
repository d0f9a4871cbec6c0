package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrExtractionFailed = errors.New("could not extract text from the document")
	ErrProfileNotFound  = errors.New("no processed resume profile for this identity")
)

// RoleAnalysis is the result of matching a resume against a target role.
type RoleAnalysis struct {
	Role            string
	Score           float64
	FoundKeywords   []string
	MissingKeywords []string
	Suggestions     []string
}

// ResumeService owns the upload pipeline: text extraction, profile
// extraction via the gateway, branch inference, and the per-identity
// profile cache the interview flow starts from. Profiles live in process
// memory only; they are persisted solely as part of a finished session's
// feedback snapshot.
type ResumeService interface {
	ProcessResume(ctx context.Context, email string, content []byte, format string) (Profile, error)
	ProfileFor(email string) (Profile, bool)
	ClearProfile(email string)
	AnalyzeForRole(ctx context.Context, content []byte, format, role string) (RoleAnalysis, error)
}

type resumeService struct {
	extractor ExtractService
	gateway   GeminiService

	mu       sync.Mutex
	profiles map[string]Profile
}

func NewResumeService(extractor ExtractService, gateway GeminiService) ResumeService {
	return &resumeService{
		extractor: extractor,
		gateway:   gateway,
		profiles:  make(map[string]Profile),
	}
}

func (s *resumeService) ProcessResume(ctx context.Context, email string, content []byte, format string) (Profile, error) {
	text := s.extractor.ExtractText(content, format)
	if text == "" {
		return Profile{}, ErrExtractionFailed
	}

	profile := s.gateway.ExtractProfile(ctx, text)
	profile.Branch = InferBranch(profile.Skills)

	s.mu.Lock()
	s.profiles[email] = profile
	s.mu.Unlock()

	log.Info().Str("email", email).Int("skills", len(profile.Skills)).
		Int("projects", len(profile.Projects)).Str("branch", profile.Branch).
		Msg("Resume processed")
	return profile, nil
}

func (s *resumeService) ProfileFor(email string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[email]
	return profile, ok
}

func (s *resumeService) ClearProfile(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, email)
}

// InferBranch guesses the engineering branch from extracted skills.
func InferBranch(skills []string) string {
	skillSet := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skillSet[strings.ToLower(strings.TrimSpace(skill))] = true
	}

	branches := []struct {
		name     string
		keywords []string
	}{
		{"Computer Science", []string{"python", "java", "c++", "javascript", "sql", "machine learning", "aws", "react", "nodejs", "go"}},
		{"Electronics", []string{"matlab", "vlsi", "analog circuits", "digital logic", "embedded"}},
		{"Electrical", []string{"plc", "scada", "power systems", "control systems"}},
		{"Civil", []string{"autocad", "staad", "concrete", "structural"}},
		{"Mechanical", []string{"thermodynamics", "fluid mechanics", "mechanical design"}},
	}
	for _, branch := range branches {
		for _, kw := range branch.keywords {
			if skillSet[kw] {
				return branch.name
			}
		}
	}
	return "General Engineering"
}

var roleSkills = map[string][]string{
	"data scientist":            {"python", "machine learning", "data analysis", "pandas", "numpy", "tensorflow", "statistics"},
	"machine learning engineer": {"python", "machine learning", "tensorflow", "scikit-learn", "deep learning", "pytorch"},
	"ai engineer":               {"python", "neural networks", "nlp", "computer vision", "tensorflow", "keras", "pytorch"},
	"web developer":             {"html", "css", "javascript", "react", "nodejs", "express", "mongodb"},
	"frontend developer":        {"html", "css", "javascript", "react", "redux", "tailwind"},
	"backend developer":         {"python", "flask", "django", "rest api", "postgresql", "mysql"},
	"full stack developer":      {"html", "css", "javascript", "nodejs", "react", "mongodb", "express", "flask"},
	"software engineer":         {"data structures", "algorithms", "oop", "python", "java", "c++"},
	"data analyst":              {"excel", "sql", "power bi", "tableau", "python", "pandas"},
	"devops engineer":           {"linux", "docker", "kubernetes", "jenkins", "aws", "terraform", "ci/cd"},
	"cloud engineer":            {"aws", "azure", "gcp", "devops", "linux", "cloudformation"},
	"mobile app developer":      {"flutter", "react native", "android", "ios", "dart", "kotlin", "swift"},
}

var skillSuggestions = map[string]string{
	"python":           "Enhance Python by building small projects or solving problems on LeetCode.",
	"machine learning": "Take an ML course and build projects.",
	"tensorflow":       "Practice TensorFlow by building a neural network model.",
	"docker":           "Learn Docker by containerizing a sample application.",
	"aws":              "Start with AWS Free Tier and deploy a basic application.",
	"html":             "Build a simple portfolio website to showcase your HTML/CSS skills.",
	"javascript":       "Make interactive web pages with JS, like a calculator or a to-do list.",
	"react":            "Build a React-based UI project like a blog or resume site.",
	"sql":              "Practice SQL queries using online playgrounds.",
}

func (s *resumeService) AnalyzeForRole(ctx context.Context, content []byte, format, role string) (RoleAnalysis, error) {
	text := s.extractor.ExtractText(content, format)
	if text == "" {
		return RoleAnalysis{}, ErrExtractionFailed
	}
	profile := s.gateway.ExtractProfile(ctx, text)
	return analyzeSkillsForRole(profile.Skills, role), nil
}

// analyzeSkillsForRole matches extracted skills against the keyword table
// for the target role.
func analyzeSkillsForRole(skills []string, role string) RoleAnalysis {
	resumeSkills := make(map[string]bool, len(skills))
	for _, skill := range skills {
		resumeSkills[strings.ToLower(strings.TrimSpace(skill))] = true
	}

	required := roleSkills[strings.ToLower(strings.TrimSpace(role))]
	var found, missing []string
	for _, skill := range required {
		if resumeSkills[skill] {
			found = append(found, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	score := 0.0
	if len(required) > 0 {
		score = float64(len(found)) / float64(len(required)) * 100
	}

	var suggestions []string
	for i, skill := range missing {
		if i >= 5 {
			break
		}
		if tip, ok := skillSuggestions[skill]; ok {
			suggestions = append(suggestions, tip)
		} else {
			suggestions = append(suggestions, fmt.Sprintf("Consider learning %s to improve your profile.", skill))
		}
	}

	return RoleAnalysis{
		Role:            role,
		Score:           score,
		FoundKeywords:   found,
		MissingKeywords: missing,
		Suggestions:     suggestions,
	}
}
