package render

import "cv-site/internal/model"

// The *Value accessors return the raw value behind a field key, or nil for
// keys the record does not have.

func PersonalInfoValue(p model.PersonalInfo, key string) any {
	switch key {
	case "name":
		return p.Name
	case "title":
		return p.Title
	case "email":
		return p.Email
	case "phone":
		return p.Phone
	case "location":
		return p.Location
	case "linkedin":
		return p.LinkedIn
	case "github":
		return p.GitHub
	case "website":
		return p.Website
	case "summary":
		return p.Summary
	}
	return nil
}

func JobValue(j model.Job, key string) any {
	switch key {
	case "company":
		return j.Company
	case "position":
		return j.Position
	case "startDate":
		return j.StartDate
	case "endDate":
		return j.EndDate
	case "location":
		return j.Location
	case "description":
		return j.Description
	case "achievements":
		return j.Achievements
	case "technologies":
		return j.Technologies
	}
	return nil
}

func DegreeValue(d model.Degree, key string) any {
	switch key {
	case "institution":
		return d.Institution
	case "degree":
		return d.Degree
	case "startDate":
		return d.StartDate
	case "endDate":
		return d.EndDate
	case "gpa":
		return d.GPA
	case "honors":
		return d.Honors
	case "relevantCourses":
		return d.RelevantCourses
	}
	return nil
}

func SkillCategoryValue(c model.SkillCategory, key string) any {
	switch key {
	case "name":
		return c.Name
	case "skills":
		return c.Skills
	}
	return nil
}

func CertificationValue(c model.Certification, key string) any {
	switch key {
	case "name":
		return c.Name
	case "issuer":
		return c.Issuer
	case "date":
		return c.Date
	case "credentialId":
		return c.CredentialID
	}
	return nil
}

func ProjectValue(p model.Project, key string) any {
	switch key {
	case "name":
		return p.Name
	case "description":
		return p.Description
	case "technologies":
		return p.Technologies
	case "url":
		return p.URL
	}
	return nil
}

// Field pairs a config with its raw and formatted value.
type Field struct {
	FieldConfig
	Raw     any    `json:"raw"`
	Display string `json:"display"`
}

func bind(fields []FieldConfig, value func(string) any) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		raw := value(f.Key)
		out = append(out, Field{FieldConfig: f, Raw: raw, Display: FormatValue(raw, f)})
	}
	return out
}

// SectionFields returns, for every record of a section, its visible fields
// with values. Personal info yields a single record.
func SectionFields(cv *model.CV, key SectionKey) [][]Field {
	if cv == nil {
		return nil
	}
	var out [][]Field
	switch key {
	case SectionPersonalInfo:
		p := cv.PersonalInfo
		out = append(out, bind(PersonalInfoFields(p), func(k string) any { return PersonalInfoValue(p, k) }))
	case SectionExperience:
		for _, j := range cv.Experience.Jobs {
			out = append(out, bind(JobFields(j), func(k string) any { return JobValue(j, k) }))
		}
	case SectionEducation:
		for _, d := range cv.Education.Degrees {
			out = append(out, bind(DegreeFields(d), func(k string) any { return DegreeValue(d, k) }))
		}
	case SectionSkills:
		for _, c := range cv.Skills.Categories {
			out = append(out, bind(SkillCategoryFields(c), func(k string) any { return SkillCategoryValue(c, k) }))
		}
	case SectionCertifications:
		for _, c := range cv.Certifications.Certifications {
			out = append(out, bind(CertificationFields(c), func(k string) any { return CertificationValue(c, k) }))
		}
	case SectionProjects:
		for _, p := range cv.Projects.Projects {
			out = append(out, bind(ProjectFields(p), func(k string) any { return ProjectValue(p, k) }))
		}
	}
	return out
}

// Contact returns the bound contact-grid fields of p.
func Contact(p model.PersonalInfo) []Field {
	return bind(ContactFields(p), func(k string) any { return PersonalInfoValue(p, k) })
}
