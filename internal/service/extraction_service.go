package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/workhive/workhive-server/internal/domain"
)

// extractionSchemaVersion pins the prompt contract. Bump it whenever the
// schema description below changes shape.
const extractionSchemaVersion = "v1"

const extractionSystemPrompt = `You are a resume parsing engine (schema ` + extractionSchemaVersion + `).
Read the attached document and return ONLY a JSON object with this exact structure, no markdown, no commentary:

{
  "personal_info": {
    "first_name": string or null,
    "last_name": string or null,
    "title": string or null,
    "email": string or null,
    "phone": string or null,
    "location": string or null
  },
  "summary": string or null,
  "experience_level": one of "entry", "junior", "mid", "senior", "lead", "executive" or null,
  "expected_salary": string or null,
  "total_years_experience": integer or null,
  "work_experiences": [
    {
      "company": string, "position": string,
      "employment_type": one of "full_time", "part_time", "contract", "internship", "freelance", "temporary" or null,
      "location": string or null,
      "start_date": "YYYY-MM-DD" or null, "end_date": "YYYY-MM-DD" or null,
      "is_current": boolean, "description": string or null,
      "skills": [string]
    }
  ],
  "educations": [
    {
      "institution": string, "degree": string or null, "field_of_study": string or null,
      "start_date": "YYYY-MM-DD" or null, "end_date": "YYYY-MM-DD" or null,
      "gpa": string or null, "skills": [string]
    }
  ],
  "skills": [
    {
      "name": string, "category": string or null,
      "proficiency": one of "beginner", "intermediate", "advanced", "expert" or null,
      "years_experience": integer or null
    }
  ],
  "projects": [
    {
      "name": string, "description": string or null, "url": string or null,
      "start_date": "YYYY-MM-DD" or null, "end_date": "YYYY-MM-DD" or null,
      "skills": [string]
    }
  ],
  "certificates": [
    {
      "name": string, "issuer": string or null,
      "issue_date": "YYYY-MM-DD" or null, "expiry_date": "YYYY-MM-DD" or null,
      "credential_url": string or null, "skills": [string]
    }
  ],
  "awards": [
    {"title": string, "issuer": string or null, "date": "YYYY-MM-DD" or null, "description": string or null}
  ],
  "volunteerings": [
    {"organization": string, "position": string or null, "start_date": "YYYY-MM-DD" or null, "end_date": "YYYY-MM-DD" or null, "description": string or null}
  ]
}

Rules:
- Extract only information present in the document. Never invent values.
- Use null for anything missing, and [] for empty lists.
- When only a month or year is known, use the first day of that period.
- Dates in the future of an ongoing role mean is_current is true and end_date is null.`

const extractionUserPrompt = "Extract the candidate profile from this resume document."

type extractionService struct {
	client  domain.GenerativeClient
	timeout time.Duration
}

func NewExtractionService(client domain.GenerativeClient, timeout time.Duration) domain.ExtractionService {
	return &extractionService{
		client:  client,
		timeout: timeout,
	}
}

func (s *extractionService) Extract(ctx context.Context, data []byte, fileName, mimeType string, size int64) (*domain.ExtractResult, error) {
	if s.client == nil {
		return nil, domain.ErrAIClientUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.GenerateJSONFromBytes(ctx, extractionSystemPrompt, extractionUserPrompt, data, mimeType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrExtractionTimeout
		}
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}

	cleaned := cleanJSONResponse(response)

	var raw domain.RawExtraction
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, domain.ErrExtractionInvalid
	}

	profile := normalizeExtraction(&raw)
	if raw.TotalYearsExperience == nil {
		profile.TotalYearsExperience = deriveTotalYears(profile.WorkExperiences)
	}

	return &domain.ExtractResult{
		Profile: profile,
		FileInfo: domain.ExtractedFileInfo{
			Name:     fileName,
			Size:     size,
			MimeType: mimeType,
		},
		Counts: countSections(&profile),
	}, nil
}

// deriveTotalYears sums whole months across experience entries and rounds the
// total to years. An entry without a parseable end date counts up to today,
// and stated end dates never count past today. Entries with no parseable
// start date contribute nothing.
func deriveTotalYears(experiences []domain.CanonicalWorkExperience) int {
	totalMonths := 0
	now := time.Now()

	for _, exp := range experiences {
		start, ok := parseDate(exp.StartDate)
		if !ok {
			continue
		}

		end := now
		if !exp.IsCurrent {
			if parsed, ok := parseDate(exp.EndDate); ok {
				end = parsed
			}
		}
		if end.After(now) {
			end = now
		}

		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if months < 0 {
			months = 0
		}
		totalMonths += months
	}

	return int(math.Round(float64(totalMonths) / 12.0))
}

// cleanJSONResponse strips markdown code fences the model sometimes wraps
// around its JSON output.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
