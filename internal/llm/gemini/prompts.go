package gemini

import (
	"fmt"
	"strings"
)

func analyzePrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("You are an expert resume analyzer and career coach. Provide accurate, helpful analysis in the requested JSON format.\n\n")
	b.WriteString("Analyze the following resume and provide a comprehensive assessment:\n\n")
	b.WriteString("Resume Text:\n")
	b.WriteString(resumeText)
	b.WriteString("\n")
	if jobDescription != "" {
		b.WriteString("\nJob Description: ")
		b.WriteString(jobDescription)
		b.WriteString("\n")
	}
	b.WriteString(`
Provide the analysis in JSON format:
{
  "atsScore": number (0-100),
  "extractedSkills": ["skill1", "skill2"],
  "experience": "summary of experience level",
  "education": "summary of education",
  "summary": "brief professional summary",
  "recommendations": ["recommendation1", "recommendation2"],
  "keywords": ["keyword1", "keyword2"],
  "missingKeywords": ["missing1", "missing2"]
}

Focus on:
- ATS compatibility (keyword matching, formatting, clarity)
- Skill extraction and relevance
- Experience level assessment
- Areas for improvement

Respond ONLY with valid JSON, no markdown, no explanations.`)
	return b.String()
}

func questionsPrompt(resumeText, jobDescription string, count int) string {
	var b strings.Builder
	b.WriteString("You are an expert interview coach. Generate relevant, challenging interview questions in the requested JSON format.\n\n")
	fmt.Fprintf(&b, "Generate %d relevant interview questions based on the following resume and job description:\n\n", count)
	b.WriteString("Resume Text:\n")
	b.WriteString(resumeText)
	b.WriteString("\n\nJob Description:\n")
	b.WriteString(jobDescription)
	b.WriteString(`

Provide questions in JSON format:
{
  "questions": [
    {
      "question": "question text",
      "category": "technical|behavioral|situational|company",
      "difficulty": "easy|medium|hard"
    }
  ]
}

Include a mix of technical questions related to the skills mentioned,
behavioral questions about past experiences, situational questions relevant
to the role, and company-specific questions.

Respond only with valid JSON.`)
	return b.String()
}

func recommendPrompt(skills []string, experienceLevel, industry string) string {
	var b strings.Builder
	b.WriteString("You are an expert career advisor and company researcher. Provide accurate company recommendations in the requested JSON format.\n\n")
	b.WriteString("Based on the following profile, suggest 10 companies that are hiring for these skills and would be a good match:\n\n")
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "Experience Level: %s\n", experienceLevel)
	if industry != "" {
		fmt.Fprintf(&b, "Preferred Industry: %s\n", industry)
	}
	b.WriteString(`
Provide recommendations in JSON format:
{
  "companies": [
    {
      "name": "company name",
      "industry": "industry",
      "size": "startup|small|medium|large|enterprise",
      "location": {"city": "city", "state": "state", "country": "country"},
      "description": "brief company description",
      "requiredSkills": [{"skill": "skill name", "importance": "low|medium|high|critical"}],
      "preferredSkills": ["skill1", "skill2"],
      "experienceLevel": "entry|mid|senior|executive",
      "jobTitles": ["title1", "title2"],
      "benefits": ["benefit1", "benefit2"],
      "companyCulture": "brief culture description",
      "matchPercentage": number (0-100)
    }
  ]
}

Calculate match percentage based on skill overlap and experience level compatibility.

Respond only with valid JSON.`)
	return b.String()
}
