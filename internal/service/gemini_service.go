package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"vintervu/config"
	"vintervu/internal/session"
)

// Profile is what the gateway extracts from a resume. Branch is inferred
// locally, not by the model.
type Profile struct {
	Skills   []string          `json:"skills"`
	Projects []session.Project `json:"projects"`
	Domains  []string          `json:"domains"`
	Branch   string            `json:"branch"`
}

// GeminiService is the gateway to the generative model. Every method
// degrades to a fixed fallback value on any failure (network, quota,
// malformed response); callers never observe a gateway error.
type GeminiService interface {
	ExtractProfile(ctx context.Context, resumeText string) Profile
	GenerateQuestions(ctx context.Context, skills []string, projects []session.Project, branch string, asked []string) []string
	GenerateProjectQuestions(ctx context.Context, projects []session.Project, skills []string) []string
	GenerateFollowUp(ctx context.Context, lastAnswer string, skills []string) string
	EvaluateAnswer(ctx context.Context, question, answer string) session.Evaluation
}

type geminiService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiService(cfg *config.Config) (GeminiService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiService will serve fallback values only.")
		return &geminiService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiService{client: model, cfg: cfg}, nil
}

// resumeTextLimit caps how much resume text is embedded into a prompt.
const resumeTextLimit = 4000

const fallbackScore = 5

var defaultQuestions = []string{
	"Explain the architecture of your most complex project.",
	"How would you optimize the performance of your application?",
	"Describe a challenging bug you encountered and how you solved it.",
}

const defaultFollowUp = "Can you elaborate on the technical implementation details?"

const defaultProjectQuestion = "Tell me about the biggest challenge in your recent project."

var fallbackEvaluation = session.Evaluation{
	Score:                  fallbackScore,
	TechnicalStrengths:     "You demonstrated a solid understanding of the basic concepts and showed a good problem-solving approach. Your answer covered the key technical points adequately.",
	CommunicationQuality:   "Your explanation was clear and well-structured. You communicated your ideas in a logical sequence.",
	KnowledgeGaps:          "There are opportunities to dive deeper into the technical implementation details. Consider exploring edge cases and potential challenges that might arise in real-world scenarios.",
	ImplementationInsights: "Your answer shows practical awareness, but could benefit from more specific examples of how this would work in production environments.",
	DetailedSuggestions:    "To strengthen your answer, consider including specific examples, discussing performance implications, mentioning relevant tools or frameworks, and addressing potential scalability concerns.",
	IndustryRelevance:      "Your response aligns with current industry practices. Consider staying updated with the latest trends in this area.",
	NextLearningSteps:      "1. Practice implementing similar solutions in code, 2. Study real-world case studies, 3. Explore advanced features and optimization techniques",
}

// generate runs one prompt under the configured timeout and returns the
// concatenated text parts of the first candidate.
func (s *geminiService) generate(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GeminiTimeout)
	defer cancel()

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return sb.String(), nil
}

func (s *geminiService) ExtractProfile(ctx context.Context, resumeText string) Profile {
	if len(resumeText) > resumeTextLimit {
		resumeText = resumeText[:resumeTextLimit]
	}

	prompt := fmt.Sprintf(`Analyze this resume text and extract:
1. Technical skills (programming languages, frameworks, tools, technologies, software)
2. Project titles and their key technologies used
3. Domain expertise areas

Respond in JSON format:
{
    "skills": ["Skill1", "Skill2", "Skill3"],
    "projects": [
        {"title": "Project Name", "technologies": ["Tech1", "Tech2"]}
    ],
    "domains": ["Domain1", "Domain2"]
}

Resume Text:
%s
`, resumeText)

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Profile extraction failed, returning empty profile")
		return Profile{}
	}
	profile, ok := parseProfileJSON(raw)
	if !ok {
		log.Warn().Str("raw", raw).Msg("Profile extraction response was not valid JSON")
		return Profile{}
	}
	return profile
}

func (s *geminiService) GenerateQuestions(ctx context.Context, skills []string, projects []session.Project, branch string, asked []string) []string {
	skillList := "basic programming concepts"
	if len(skills) > 0 {
		limit := len(skills)
		if limit > 10 {
			limit = 10
		}
		skillList = strings.Join(skills[:limit], ", ")
	}

	askedTopics := "none"
	if len(asked) > 0 {
		askedTopics = strings.Join(asked, ", ")
	}

	prompt := fmt.Sprintf(`Generate 7 TECHNICAL interview questions for a %s candidate based on:

CANDIDATE'S SKILLS: %s
PROJECTS:
%s
CORE %s TOPICS: %s

REQUIREMENTS:
1. Focus 70%% on candidate's actual skills and project technologies
2. Include 30%% core %s fundamentals
3. Ask about specific implementations, not just definitions
4. Include scenario-based questions
5. Each question should be practical and implementation-focused
6. Avoid these already asked topics: %s

Format: Return only the questions, one per line, numbered 1-7.
Make questions specific to the skills mentioned above.
`, branch, skillList, describeProjects(projects, 3), strings.ToUpper(branch), strings.Join(coreTopics(branch), ", "), branch, askedTopics)

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Question generation failed, using default question set")
		return append([]string(nil), defaultQuestions...)
	}

	questions := filterSimilarQuestions(parseQuestionLines(raw), asked)
	if len(questions) == 0 {
		return append([]string(nil), defaultQuestions...)
	}
	if len(questions) > 5 {
		questions = questions[:5]
	}
	return questions
}

func (s *geminiService) GenerateProjectQuestions(ctx context.Context, projects []session.Project, skills []string) []string {
	limit := len(skills)
	if limit > 8 {
		limit = 8
	}

	prompt := fmt.Sprintf(`Based on these projects and skills, generate 3 specific project-based interview questions:

PROJECTS:
%s
SKILLS: %s

Generate questions that ask about:
1. Technical challenges in these specific projects
2. Implementation decisions and trade-offs
3. How they used specific technologies mentioned

Questions should be specific to these projects, not generic.
Return only the questions, one per line.
`, describeProjects(projects, 3), strings.Join(skills[:limit], ", "))

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Project question generation failed, using default")
		return []string{defaultProjectQuestion}
	}

	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, stripNumbering(line))
		}
	}
	if len(questions) == 0 {
		return []string{defaultProjectQuestion}
	}
	if len(questions) > 3 {
		questions = questions[:3]
	}
	return questions
}

func (s *geminiService) GenerateFollowUp(ctx context.Context, lastAnswer string, skills []string) string {
	limit := len(skills)
	if limit > 5 {
		limit = 5
	}

	prompt := fmt.Sprintf(`Based on this candidate response: "%s"
And their skills: %s
Generate ONE specific follow-up question that digs deeper into their technical knowledge.

The follow-up should:
1. Be more specific than the original answer
2. Test deeper technical understanding
3. Ask about implementation details or edge cases
4. Be directly related to their mentioned skills

Return only the question, nothing else.
`, lastAnswer, strings.Join(skills[:limit], ", "))

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Follow-up generation failed, using default")
		return defaultFollowUp
	}
	followUp := strings.TrimSpace(raw)
	if followUp == "" {
		return defaultFollowUp
	}
	return followUp
}

func (s *geminiService) EvaluateAnswer(ctx context.Context, question, answer string) session.Evaluation {
	scorePrompt := fmt.Sprintf(`Evaluate this technical interview response:
Question: "%s"
Answer: "%s"

Score from 0-10 considering:
- Technical accuracy (40%%)
- Depth of explanation (30%%)
- Clarity and structure (20%%)
- Practical insight (10%%)

Return only the numeric score (0-10).
`, question, answer)

	score := fallbackScore
	if raw, err := s.generate(ctx, scorePrompt); err != nil {
		log.Warn().Err(err).Msg("Answer scoring failed, using fallback score")
	} else {
		score = parseScore(raw)
	}

	feedbackPrompt := fmt.Sprintf(`Analyze this technical interview response in detail:
Question: "%s"
Answer: "%s"

Provide comprehensive feedback in the following format as JSON:
{
    "technical_strengths": "Detailed analysis of what was technically correct and well-explained (3-4 sentences)",
    "communication_quality": "Assessment of clarity, structure, and communication skills shown (2-3 sentences)",
    "knowledge_gaps": "Specific areas where knowledge could be improved or was missing (3-4 sentences)",
    "implementation_insights": "Comments on practical understanding and real-world application (2-3 sentences)",
    "detailed_suggestions": "Specific, actionable recommendations for improvement (4-5 sentences)",
    "industry_relevance": "How well the answer reflects industry standards and best practices (2-3 sentences)",
    "next_learning_steps": "Concrete next steps for skill development (3-4 specific recommendations)"
}

Make each section detailed and specific to this particular response.
`, question, answer)

	eval := fallbackEvaluation
	if raw, err := s.generate(ctx, feedbackPrompt); err != nil {
		log.Warn().Err(err).Msg("Answer critique failed, using fallback critique")
	} else if parsed, ok := parseEvaluationJSON(raw); ok {
		eval = parsed
	} else {
		log.Warn().Str("raw", raw).Msg("Answer critique response was not valid JSON, using fallback critique")
	}
	eval.Score = score
	return eval
}

// coreTopics returns the fundamentals to weave into question prompts for a
// given engineering branch.
func coreTopics(branch string) []string {
	topics := map[string][]string{
		"Computer Science": {"Data Structures", "Algorithms", "Operating Systems", "DBMS", "Computer Networks", "OOP", "System Design"},
		"Electronics":      {"Analog Circuits", "Digital Logic", "Microprocessors", "Embedded Systems", "VLSI", "Signal Processing"},
		"Electrical":       {"Circuits", "Control Systems", "Signal Processing", "Power Systems", "Electromagnetics", "Power Electronics"},
		"Mechanical":       {"Thermodynamics", "Fluid Mechanics", "Heat Transfer", "Strength of Materials", "Machine Design", "Manufacturing"},
		"Civil":            {"Structural Analysis", "Concrete Technology", "Geotechnical Engineering", "Transportation Engineering", "Environmental Engineering"},
	}
	if t, ok := topics[branch]; ok {
		return t
	}
	return []string{"Engineering Fundamentals"}
}

func describeProjects(projects []session.Project, limit int) string {
	if len(projects) == 0 {
		return "none listed\n"
	}
	if len(projects) > limit {
		projects = projects[:limit]
	}
	var sb strings.Builder
	for _, p := range projects {
		if len(p.Technologies) > 0 {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", p.Title, strings.Join(p.Technologies, ", ")))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", p.Title))
		}
	}
	return sb.String()
}

// extractJSONObject slices the substring between the first '{' and the last
// '}'. The model wraps JSON payloads in prose and code fences often enough
// that naive unmarshalling of the full reply fails.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func parseProfileJSON(raw string) (Profile, bool) {
	payload, ok := extractJSONObject(raw)
	if !ok {
		return Profile{}, false
	}
	var decoded struct {
		Skills   []string          `json:"skills"`
		Projects []json.RawMessage `json:"projects"`
		Domains  []string          `json:"domains"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return Profile{}, false
	}
	return Profile{
		Skills:   decoded.Skills,
		Projects: normalizeProjects(decoded.Projects),
		Domains:  decoded.Domains,
	}, true
}

// normalizeProjects accepts both the structured {title, technologies} shape
// and bare strings, which the model emits interchangeably, and produces one
// uniform shape.
func normalizeProjects(raw []json.RawMessage) []session.Project {
	var projects []session.Project
	for _, entry := range raw {
		var structured session.Project
		if err := json.Unmarshal(entry, &structured); err == nil && structured.Title != "" {
			if structured.Technologies == nil {
				structured.Technologies = []string{}
			}
			projects = append(projects, structured)
			continue
		}
		var title string
		if err := json.Unmarshal(entry, &title); err == nil && strings.TrimSpace(title) != "" {
			projects = append(projects, session.Project{Title: strings.TrimSpace(title), Technologies: []string{}})
		}
	}
	return projects
}

func parseEvaluationJSON(raw string) (session.Evaluation, bool) {
	payload, ok := extractJSONObject(raw)
	if !ok {
		return session.Evaluation{}, false
	}
	var eval session.Evaluation
	if err := json.Unmarshal([]byte(payload), &eval); err != nil {
		return session.Evaluation{}, false
	}
	if eval.TechnicalStrengths == "" && eval.DetailedSuggestions == "" {
		return session.Evaluation{}, false
	}
	return eval, true
}

// parseScore extracts an integer score from the model reply. Anything
// non-numeric or outside [0,10] falls back to the neutral mid score.
func parseScore(raw string) int {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return fallbackScore
	}
	score, err := strconv.Atoi(strings.TrimSuffix(fields[0], "."))
	if err != nil || score < 0 || score > 10 {
		return fallbackScore
	}
	return score
}

// parseQuestionLines pulls questions out of a numbered or bulleted list.
func parseQuestionLines(raw string) []string {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] >= '0' && line[0] <= '9' || strings.HasPrefix(line, "-") {
			if q := stripNumbering(line); q != "" {
				questions = append(questions, q)
			}
		}
	}
	return questions
}

func stripNumbering(line string) string {
	if idx := strings.Index(line, "."); idx != -1 && idx < 4 {
		return strings.TrimSpace(line[idx+1:])
	}
	return strings.TrimSpace(strings.TrimLeft(line, "- "))
}

// questionSimilarity is the share of words two questions have in common,
// relative to the longer one.
func questionSimilarity(a, b string) float64 {
	aWords := wordSet(a)
	bWords := wordSet(b)
	common := 0
	for w := range aWords {
		if bWords[w] {
			common++
		}
	}
	max := len(aWords)
	if len(bWords) > max {
		max = len(bWords)
	}
	if max == 0 {
		max = 1
	}
	return float64(common) / float64(max)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func filterSimilarQuestions(questions, asked []string) []string {
	var filtered []string
	for _, q := range questions {
		similar := false
		for _, prev := range asked {
			if questionSimilarity(q, prev) > 0.6 {
				similar = true
				break
			}
		}
		if !similar {
			filtered = append(filtered, q)
		}
	}
	return filtered
}
