package service

import (
	"strings"
	"time"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/shopspring/decimal"
)

// Closed enum sets for the canonical profile. Extraction output is untrusted
// free text, so anything outside these sets collapses to nil instead of
// failing the pipeline.
var (
	employmentTypes = map[string]bool{
		"full_time":  true,
		"part_time":  true,
		"contract":   true,
		"internship": true,
		"freelance":  true,
		"temporary":  true,
	}

	experienceLevels = map[string]bool{
		"entry":     true,
		"junior":    true,
		"mid":       true,
		"senior":    true,
		"lead":      true,
		"executive": true,
	}

	proficiencyLevels = map[string]bool{
		"beginner":     true,
		"intermediate": true,
		"advanced":     true,
		"expert":       true,
	}
)

// dateLayouts are tried in order when parsing extraction dates. Whatever
// parses is re-rendered as YYYY-MM-DD; anything else drops to nil.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

const canonicalDateLayout = "2006-01-02"

// normalizeExtraction maps the untrusted extraction bag into the canonical
// profile shape. It is total: no input can make it fail.
func normalizeExtraction(raw *domain.RawExtraction) domain.CanonicalProfile {
	profile := domain.CanonicalProfile{
		Summary:         strOrEmpty(raw.Summary),
		ExperienceLevel: normalizeEnum(raw.ExperienceLevel, experienceLevels),
		ExpectedSalary:  normalizeSalary(raw.ExpectedSalary),
		WorkExperiences: make([]domain.CanonicalWorkExperience, 0, len(raw.WorkExperiences)),
		Educations:      make([]domain.CanonicalEducation, 0, len(raw.Educations)),
		Skills:          make([]domain.CanonicalSkill, 0, len(raw.Skills)),
		Projects:        make([]domain.CanonicalProject, 0, len(raw.Projects)),
		Certificates:    make([]domain.CanonicalCertificate, 0, len(raw.Certificates)),
		Awards:          make([]domain.CanonicalAward, 0, len(raw.Awards)),
		Volunteerings:   make([]domain.CanonicalVolunteering, 0, len(raw.Volunteerings)),
	}

	if raw.TotalYearsExperience != nil && *raw.TotalYearsExperience >= 0 {
		profile.TotalYearsExperience = *raw.TotalYearsExperience
	}

	if pi := raw.PersonalInfo; pi != nil {
		profile.FirstName = strOrEmpty(pi.FirstName)
		profile.LastName = strOrEmpty(pi.LastName)
		profile.Title = strOrEmpty(pi.Title)
		profile.Email = strOrEmpty(pi.Email)
		profile.Phone = strOrEmpty(pi.Phone)
		profile.Location = strOrEmpty(pi.Location)
	}

	for _, w := range raw.WorkExperiences {
		profile.WorkExperiences = append(profile.WorkExperiences, domain.CanonicalWorkExperience{
			Company:        strOrEmpty(w.Company),
			Position:       strOrEmpty(w.Position),
			EmploymentType: normalizeEnum(w.EmploymentType, employmentTypes),
			Location:       strOrEmpty(w.Location),
			StartDate:      normalizeDate(w.StartDate),
			EndDate:        normalizeDate(w.EndDate),
			IsCurrent:      w.IsCurrent != nil && *w.IsCurrent,
			Description:    strOrEmpty(w.Description),
			SkillNames:     cleanStrings(w.Skills),
		})
	}

	for _, e := range raw.Educations {
		profile.Educations = append(profile.Educations, domain.CanonicalEducation{
			Institution:  strOrEmpty(e.Institution),
			Degree:       strOrEmpty(e.Degree),
			FieldOfStudy: strOrEmpty(e.FieldOfStudy),
			StartDate:    normalizeDate(e.StartDate),
			EndDate:      normalizeDate(e.EndDate),
			GPA:          trimmedOrNil(e.GPA),
			SkillNames:   cleanStrings(e.Skills),
		})
	}

	for _, s := range raw.Skills {
		name := strings.TrimSpace(strOrEmpty(s.Name))
		if name == "" {
			continue
		}
		skill := domain.CanonicalSkill{
			Name:        name,
			Category:    trimmedOrNil(s.Category),
			Proficiency: normalizeEnum(s.Proficiency, proficiencyLevels),
		}
		if s.YearsExperience != nil && *s.YearsExperience >= 0 {
			skill.YearsExperience = s.YearsExperience
		}
		profile.Skills = append(profile.Skills, skill)
	}

	for _, p := range raw.Projects {
		profile.Projects = append(profile.Projects, domain.CanonicalProject{
			Name:        strOrEmpty(p.Name),
			Description: strOrEmpty(p.Description),
			URL:         trimmedOrNil(p.URL),
			StartDate:   normalizeDate(p.StartDate),
			EndDate:     normalizeDate(p.EndDate),
			SkillNames:  cleanStrings(p.Skills),
		})
	}

	for _, c := range raw.Certificates {
		profile.Certificates = append(profile.Certificates, domain.CanonicalCertificate{
			Name:          strOrEmpty(c.Name),
			Issuer:        strOrEmpty(c.Issuer),
			IssueDate:     normalizeDate(c.IssueDate),
			ExpiryDate:    normalizeDate(c.ExpiryDate),
			CredentialURL: trimmedOrNil(c.CredentialURL),
			SkillNames:    cleanStrings(c.Skills),
		})
	}

	for _, a := range raw.Awards {
		profile.Awards = append(profile.Awards, domain.CanonicalAward{
			Title:       strOrEmpty(a.Title),
			Issuer:      strOrEmpty(a.Issuer),
			Date:        normalizeDate(a.Date),
			Description: strOrEmpty(a.Description),
		})
	}

	for _, v := range raw.Volunteerings {
		profile.Volunteerings = append(profile.Volunteerings, domain.CanonicalVolunteering{
			Organization: strOrEmpty(v.Organization),
			Position:     strOrEmpty(v.Position),
			StartDate:    normalizeDate(v.StartDate),
			EndDate:      normalizeDate(v.EndDate),
			Description:  strOrEmpty(v.Description),
		})
	}

	return profile
}

// normalizeCanonical applies the same defaulting rules to a caller-submitted
// canonical profile: submitted payloads went through user editing and cannot
// be trusted to keep enums and dates valid either.
func normalizeCanonical(profile *domain.CanonicalProfile) {
	profile.ExperienceLevel = normalizeEnum(profile.ExperienceLevel, experienceLevels)
	if profile.WorkExperiences == nil {
		profile.WorkExperiences = []domain.CanonicalWorkExperience{}
	}
	if profile.Educations == nil {
		profile.Educations = []domain.CanonicalEducation{}
	}
	if profile.Skills == nil {
		profile.Skills = []domain.CanonicalSkill{}
	}
	if profile.Projects == nil {
		profile.Projects = []domain.CanonicalProject{}
	}
	if profile.Certificates == nil {
		profile.Certificates = []domain.CanonicalCertificate{}
	}
	if profile.Awards == nil {
		profile.Awards = []domain.CanonicalAward{}
	}
	if profile.Volunteerings == nil {
		profile.Volunteerings = []domain.CanonicalVolunteering{}
	}

	for i := range profile.WorkExperiences {
		w := &profile.WorkExperiences[i]
		w.EmploymentType = normalizeEnum(w.EmploymentType, employmentTypes)
		w.StartDate = normalizeDate(w.StartDate)
		w.EndDate = normalizeDate(w.EndDate)
		w.SkillNames = cleanStrings(w.SkillNames)
	}
	for i := range profile.Educations {
		e := &profile.Educations[i]
		e.StartDate = normalizeDate(e.StartDate)
		e.EndDate = normalizeDate(e.EndDate)
		e.SkillNames = cleanStrings(e.SkillNames)
	}
	for i := range profile.Skills {
		profile.Skills[i].Proficiency = normalizeEnum(profile.Skills[i].Proficiency, proficiencyLevels)
	}
	for i := range profile.Projects {
		p := &profile.Projects[i]
		p.StartDate = normalizeDate(p.StartDate)
		p.EndDate = normalizeDate(p.EndDate)
		p.SkillNames = cleanStrings(p.SkillNames)
	}
	for i := range profile.Certificates {
		c := &profile.Certificates[i]
		c.IssueDate = normalizeDate(c.IssueDate)
		c.ExpiryDate = normalizeDate(c.ExpiryDate)
		c.SkillNames = cleanStrings(c.SkillNames)
	}
	for i := range profile.Awards {
		profile.Awards[i].Date = normalizeDate(profile.Awards[i].Date)
	}
	for i := range profile.Volunteerings {
		v := &profile.Volunteerings[i]
		v.StartDate = normalizeDate(v.StartDate)
		v.EndDate = normalizeDate(v.EndDate)
	}
}

func countSections(profile *domain.CanonicalProfile) domain.SectionCounts {
	return domain.SectionCounts{
		WorkExperiences: len(profile.WorkExperiences),
		Educations:      len(profile.Educations),
		Skills:          len(profile.Skills),
		Projects:        len(profile.Projects),
		Certificates:    len(profile.Certificates),
		Awards:          len(profile.Awards),
		Volunteerings:   len(profile.Volunteerings),
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*p)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeEnum(value *string, allowed map[string]bool) *string {
	if value == nil {
		return nil
	}
	candidate := strings.ToLower(strings.TrimSpace(*value))
	candidate = strings.ReplaceAll(candidate, "-", "_")
	candidate = strings.ReplaceAll(candidate, " ", "_")
	if !allowed[candidate] {
		return nil
	}
	return &candidate
}

func normalizeDate(value *string) *string {
	parsed, ok := parseDate(value)
	if !ok {
		return nil
	}
	formatted := parsed.Format(canonicalDateLayout)
	return &formatted
}

func parseDate(value *string) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeSalary(value *string) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(*value)
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
