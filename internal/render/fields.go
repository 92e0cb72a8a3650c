package render

import (
	"fmt"

	"cv-site/internal/model"
)

// FieldType selects how a field value is displayed.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEmail
	FieldPhone
	FieldURL
	FieldDate
	FieldList
	FieldArray
	FieldObject
)

var fieldTypeNames = [...]string{
	FieldText:   "text",
	FieldEmail:  "email",
	FieldPhone:  "phone",
	FieldURL:    "url",
	FieldDate:   "date",
	FieldList:   "list",
	FieldArray:  "array",
	FieldObject: "object",
}

func (t FieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

func (t FieldType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return nil, fmt.Errorf("unknown field type %d", int(t))
	}
	return []byte(fieldTypeNames[t]), nil
}

func (t *FieldType) UnmarshalText(b []byte) error {
	for i, n := range fieldTypeNames {
		if n == string(b) {
			*t = FieldType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown field type %q", string(b))
}

// FieldConfig describes one displayable attribute of a record.
type FieldConfig struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Visible  bool      `json:"visible"`
	Required bool      `json:"required,omitempty"`
	Format   string    `json:"format,omitempty"`
}

func text(key, label string) FieldConfig {
	return FieldConfig{Key: key, Label: label, Type: FieldText, Visible: true}
}

func requiredText(key, label string) FieldConfig {
	f := text(key, label)
	f.Required = true
	return f
}

func typed(key, label string, t FieldType) FieldConfig {
	return FieldConfig{Key: key, Label: label, Type: t, Visible: true}
}

func date(key, label string) FieldConfig {
	return FieldConfig{Key: key, Label: label, Type: FieldDate, Visible: true, Format: DateFormatYearMonth}
}

// fieldList appends only the fields whose values are present.
type fieldList []FieldConfig

func (l *fieldList) addIf(present bool, f FieldConfig) {
	if present {
		*l = append(*l, f)
	}
}

func PersonalInfoFields(p model.PersonalInfo) []FieldConfig {
	var l fieldList
	l.addIf(p.Name != "", requiredText("name", "Name"))
	l.addIf(p.Title != "", requiredText("title", "Title"))
	l.addIf(p.Email != "", typed("email", "Email", FieldEmail))
	l.addIf(p.Phone != "", typed("phone", "Phone", FieldPhone))
	l.addIf(p.Location != "", text("location", "Location"))
	l.addIf(p.LinkedIn != "", typed("linkedin", "LinkedIn", FieldURL))
	l.addIf(p.GitHub != "", typed("github", "GitHub", FieldURL))
	l.addIf(p.Website != "", typed("website", "Website", FieldURL))
	l.addIf(p.Summary != "", text("summary", "Summary"))
	return l
}

// ContactFields are the personal info fields shown in the contact grid; the
// header and summary render name, title and summary separately.
func ContactFields(p model.PersonalInfo) []FieldConfig {
	var out []FieldConfig
	for _, f := range PersonalInfoFields(p) {
		switch f.Key {
		case "name", "title", "summary":
			continue
		}
		out = append(out, f)
	}
	return out
}

func JobFields(j model.Job) []FieldConfig {
	var l fieldList
	l.addIf(j.Company != "", requiredText("company", "Company"))
	l.addIf(j.Position != "", requiredText("position", "Position"))
	l.addIf(j.StartDate != "", date("startDate", "Start Date"))
	l.addIf(j.EndDate != "", date("endDate", "End Date"))
	l.addIf(j.Location != "", text("location", "Location"))
	l.addIf(j.Description != "", text("description", "Description"))
	l.addIf(len(j.Achievements) > 0, typed("achievements", "Achievements", FieldList))
	l.addIf(len(j.Technologies) > 0, typed("technologies", "Technologies", FieldList))
	return l
}

func DegreeFields(d model.Degree) []FieldConfig {
	var l fieldList
	l.addIf(d.Institution != "", requiredText("institution", "Institution"))
	l.addIf(d.Degree != "", requiredText("degree", "Degree"))
	l.addIf(d.StartDate != "", date("startDate", "Start Date"))
	l.addIf(d.EndDate != "", date("endDate", "End Date"))
	l.addIf(d.GPA != "", text("gpa", "GPA"))
	l.addIf(d.Honors != "", text("honors", "Honors"))
	l.addIf(len(d.RelevantCourses) > 0, typed("relevantCourses", "Relevant Courses", FieldList))
	return l
}

func SkillCategoryFields(c model.SkillCategory) []FieldConfig {
	var l fieldList
	l.addIf(c.Name != "", requiredText("name", "Category"))
	l.addIf(len(c.Skills) > 0, typed("skills", "Skills", FieldArray))
	return l
}

func CertificationFields(c model.Certification) []FieldConfig {
	var l fieldList
	l.addIf(c.Name != "", requiredText("name", "Certification"))
	l.addIf(c.Issuer != "", text("issuer", "Issuer"))
	l.addIf(c.Date != "", date("date", "Date"))
	l.addIf(c.CredentialID != "", text("credentialId", "Credential ID"))
	return l
}

func ProjectFields(p model.Project) []FieldConfig {
	var l fieldList
	l.addIf(p.Name != "", requiredText("name", "Project Name"))
	l.addIf(p.Description != "", text("description", "Description"))
	l.addIf(len(p.Technologies) > 0, typed("technologies", "Technologies", FieldList))
	l.addIf(p.URL != "", typed("url", "Project URL", FieldURL))
	return l
}
