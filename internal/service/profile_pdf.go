package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/go-pdf/fpdf"
)

// renderProfilePDF lays the stored profile out as a one-column resume.
func renderProfilePDF(profile *domain.CandidateProfile, skills []domain.Skill) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	c := profile.Candidate

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, fmt.Sprintf("%s %s", c.FirstName, c.LastName))
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("%s  |  %s  |  %s", c.Title, c.Phone, c.Location))
	pdf.Ln(5)
	pdf.Ln(4)

	if c.Summary != "" {
		addSection(pdf, "PROFESSIONAL SUMMARY")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4, c.Summary, "", "", false)
		pdf.Ln(3)
	}

	if len(profile.WorkExperiences) > 0 {
		addSection(pdf, "WORK EXPERIENCE")
		for _, exp := range profile.WorkExperiences {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, exp.Position)
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "I", 9)
			location := ""
			if exp.Location != "" {
				location = " | " + exp.Location
			}
			pdf.Cell(0, 4, fmt.Sprintf("%s | %s%s", exp.Company, formatDateRange(exp.StartDate, exp.EndDate, exp.IsCurrent), location))
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "", 9)
			addBulletPoints(pdf, exp.Description)
			pdf.Ln(2)
		}
		pdf.Ln(1)
	}

	if len(profile.Educations) > 0 {
		addSection(pdf, "EDUCATION")
		for _, edu := range profile.Educations {
			pdf.SetFont("Helvetica", "B", 10)
			degree := edu.Degree
			if edu.FieldOfStudy != "" {
				degree = fmt.Sprintf("%s in %s", edu.Degree, edu.FieldOfStudy)
			}
			pdf.Cell(0, 5, degree)
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "I", 9)
			eduInfo := fmt.Sprintf("%s | %s", edu.Institution, formatDateRange(edu.StartDate, edu.EndDate, false))
			if edu.GPA != nil {
				eduInfo += fmt.Sprintf(" | GPA: %s", *edu.GPA)
			}
			pdf.Cell(0, 4, eduInfo)
			pdf.Ln(5)
		}
		pdf.Ln(1)
	}

	if len(skills) > 0 {
		addSection(pdf, "SKILLS")
		pdf.SetFont("Helvetica", "", 9)
		names := make([]string, 0, len(skills))
		for _, skill := range skills {
			names = append(names, skill.Name)
		}
		pdf.MultiCell(0, 4, strings.Join(names, "  |  "), "", "", false)
		pdf.Ln(3)
	}

	if len(profile.Projects) > 0 {
		addSection(pdf, "PROJECTS")
		for _, proj := range profile.Projects {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, proj.Name)
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "", 9)
			addBulletPoints(pdf, proj.Description)
			pdf.Ln(2)
		}
		pdf.Ln(1)
	}

	if len(profile.Certificates) > 0 {
		addSection(pdf, "CERTIFICATES")
		pdf.SetFont("Helvetica", "", 9)
		for _, cert := range profile.Certificates {
			line := cert.Name
			if cert.Issuer != "" {
				line += " - " + cert.Issuer
			}
			if cert.IssueDate != nil {
				line += " (" + *cert.IssueDate + ")"
			}
			pdf.CellFormat(5, 4, "-", "", 0, "", false, 0, "")
			pdf.MultiCell(0, 4, line, "", "", false)
		}
		pdf.Ln(1)
	}

	if len(profile.Awards) > 0 {
		addSection(pdf, "AWARDS")
		pdf.SetFont("Helvetica", "", 9)
		for _, award := range profile.Awards {
			line := award.Title
			if award.Issuer != "" {
				line += " - " + award.Issuer
			}
			pdf.CellFormat(5, 4, "-", "", 0, "", false, 0, "")
			pdf.MultiCell(0, 4, line, "", "", false)
		}
		pdf.Ln(1)
	}

	if len(profile.Volunteerings) > 0 {
		addSection(pdf, "VOLUNTEER EXPERIENCE")
		for _, vol := range profile.Volunteerings {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, vol.Position)
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.Cell(0, 4, fmt.Sprintf("%s | %s", vol.Organization, formatDateRange(vol.StartDate, vol.EndDate, false)))
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "", 9)
			addBulletPoints(pdf, vol.Description)
			pdf.Ln(2)
		}
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, title)
	pdf.Ln(6)
	pdf.SetDrawColor(100, 100, 100)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(3)
}

func addBulletPoints(pdf *fpdf.Fpdf, text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		if line == "" {
			continue
		}
		pdf.CellFormat(5, 4, "-", "", 0, "", false, 0, "")
		pdf.MultiCell(0, 4, line, "", "", false)
	}
}

func formatDateRange(start, end *string, current bool) string {
	from := "N/A"
	if start != nil {
		from = *start
	}
	to := "N/A"
	if current {
		to = "Present"
	} else if end != nil {
		to = *end
	}
	return from + " - " + to
}
