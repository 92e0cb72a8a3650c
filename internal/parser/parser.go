// Package parser maps a CV XML document onto the typed model.
package parser

import (
	"strings"

	"cv-site/internal/model"

	"go.uber.org/zap"
)

const rootElement = "cv"

// Parser turns raw XML into a model.CV. It holds no state between calls.
type Parser struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse is a convenience for New(nil).Parse(data).
func Parse(data []byte) (*model.CV, error) {
	return New(nil).Parse(data)
}

// Parse builds a CV from a complete XML document. Any error is one of
// *XMLParseError, *MissingSectionError or *MissingFieldError; no partial
// result is returned alongside it.
func (p *Parser) Parse(data []byte) (*model.CV, error) {
	root, err := buildTree(data)
	if err != nil {
		return nil, err
	}
	if root.name != rootElement {
		return nil, &XMLParseError{Diagnostic: "expected root element <cv>, found <" + root.name + ">"}
	}
	p.logger.Debug("xml parsed", zap.Int("sections", len(root.children)))

	cv := &model.CV{}
	if cv.PersonalInfo, err = parsePersonalInfo(root); err != nil {
		return nil, err
	}
	if cv.Experience, err = parseExperience(root); err != nil {
		return nil, err
	}
	if cv.Education, err = parseEducation(root); err != nil {
		return nil, err
	}
	if cv.Skills, err = parseSkills(root); err != nil {
		return nil, err
	}
	if cv.Certifications, err = parseCertifications(root); err != nil {
		return nil, err
	}
	if cv.Projects, err = parseProjects(root); err != nil {
		return nil, err
	}

	p.logger.Debug("cv mapped",
		zap.Int("jobs", len(cv.Experience.Jobs)),
		zap.Int("degrees", len(cv.Education.Degrees)),
		zap.Int("skill_categories", len(cv.Skills.Categories)),
		zap.Int("certifications", len(cv.Certifications.Certifications)),
		zap.Int("projects", len(cv.Projects.Projects)),
	)
	return cv, nil
}

// fields reads child elements of one record and remembers the first
// missing required one.
type fields struct {
	el      *element
	section string
	index   int
	err     error
}

func newFields(el *element, section string, index int) *fields {
	return &fields{el: el, section: section, index: index}
}

func (f *fields) required(name string) string {
	c := f.el.child(name)
	if c == nil {
		f.fail(name)
		return ""
	}
	return c.text()
}

// nonEmpty is required() that also rejects blank content.
func (f *fields) nonEmpty(name string) string {
	v := f.required(name)
	if v == "" {
		f.fail(name)
	}
	return v
}

func (f *fields) optional(name string) string {
	if c := f.el.child(name); c != nil {
		return c.text()
	}
	return ""
}

func (f *fields) fail(name string) {
	if f.err == nil {
		f.err = &MissingFieldError{Section: f.section, Element: f.el.name, Index: f.index, Field: name}
	}
}

func requiredSection(root *element, name string) (*element, error) {
	el := root.child(name)
	if el == nil {
		return nil, &MissingSectionError{Section: name}
	}
	return el, nil
}

func parsePersonalInfo(root *element) (model.PersonalInfo, error) {
	el, err := requiredSection(root, "personalInfo")
	if err != nil {
		return model.PersonalInfo{}, err
	}
	f := newFields(el, "personalInfo", -1)
	info := model.PersonalInfo{
		Name:     f.nonEmpty("name"),
		Title:    f.nonEmpty("title"),
		Email:    f.optional("email"),
		Phone:    f.optional("phone"),
		Location: f.optional("location"),
		LinkedIn: f.optional("linkedin"),
		GitHub:   f.optional("github"),
		Website:  f.optional("website"),
		Summary:  strings.TrimSpace(f.optional("summary")),
	}
	return info, f.err
}

func parseExperience(root *element) (model.Experience, error) {
	el, err := requiredSection(root, "experience")
	if err != nil {
		return model.Experience{}, err
	}
	jobs := make([]model.Job, 0)
	for i, jobEl := range el.all("job") {
		f := newFields(jobEl, "experience", i)
		job := model.Job{
			Company:      f.required("company"),
			Position:     f.required("position"),
			StartDate:    f.required("startDate"),
			EndDate:      f.required("endDate"),
			Location:     f.required("location"),
			Description:  f.required("description"),
			Achievements: parseAchievements(jobEl),
			Technologies: parseTechnologies(jobEl),
		}
		if f.err != nil {
			return model.Experience{}, f.err
		}
		jobs = append(jobs, job)
	}
	return model.Experience{Jobs: jobs}, nil
}

func parseAchievements(parent *element) []model.Achievement {
	out := make([]model.Achievement, 0)
	if list := parent.child("achievements"); list != nil {
		for _, a := range list.all("achievement") {
			out = append(out, model.Achievement{Text: a.text()})
		}
	}
	return out
}

func parseTechnologies(parent *element) []model.Technology {
	out := make([]model.Technology, 0)
	if list := parent.child("technologies"); list != nil {
		for _, t := range list.all("tech") {
			out = append(out, model.Technology{Name: t.text()})
		}
	}
	return out
}

func parseEducation(root *element) (model.Education, error) {
	el, err := requiredSection(root, "education")
	if err != nil {
		return model.Education{}, err
	}
	degrees := make([]model.Degree, 0)
	for i, degEl := range el.all("degree") {
		f := newFields(degEl, "education", i)
		deg := model.Degree{
			Institution:     f.required("institution"),
			Degree:          f.required("degree"),
			StartDate:       f.required("startDate"),
			EndDate:         f.required("endDate"),
			GPA:             f.optional("gpa"),
			Honors:          f.optional("honors"),
			RelevantCourses: parseCourses(degEl),
		}
		if f.err != nil {
			return model.Education{}, f.err
		}
		degrees = append(degrees, deg)
	}
	return model.Education{Degrees: degrees}, nil
}

func parseCourses(parent *element) []model.Course {
	out := make([]model.Course, 0)
	if list := parent.child("relevantCourses"); list != nil {
		for _, c := range list.all("course") {
			out = append(out, model.Course{Name: c.text()})
		}
	}
	return out
}

func parseSkills(root *element) (model.Skills, error) {
	el, err := requiredSection(root, "skills")
	if err != nil {
		return model.Skills{}, err
	}
	categories := make([]model.SkillCategory, 0)
	for _, catEl := range el.all("category") {
		skills := make([]model.Skill, 0)
		for _, s := range catEl.all("skill") {
			skills = append(skills, model.Skill{
				Name:  s.text(),
				Level: model.ParseSkillLevel(s.attr("level")),
			})
		}
		categories = append(categories, model.SkillCategory{Name: catEl.attr("name"), Skills: skills})
	}
	return model.Skills{Categories: categories}, nil
}

func parseCertifications(root *element) (model.Certifications, error) {
	certs := make([]model.Certification, 0)
	el := root.child("certifications")
	if el == nil {
		return model.Certifications{Certifications: certs}, nil
	}
	for i, certEl := range el.all("certification") {
		f := newFields(certEl, "certifications", i)
		cert := model.Certification{
			Name:         f.required("name"),
			Issuer:       f.required("issuer"),
			Date:         f.required("date"),
			CredentialID: f.optional("credentialId"),
		}
		if f.err != nil {
			return model.Certifications{}, f.err
		}
		certs = append(certs, cert)
	}
	return model.Certifications{Certifications: certs}, nil
}

func parseProjects(root *element) (model.Projects, error) {
	projects := make([]model.Project, 0)
	el := root.child("projects")
	if el == nil {
		return model.Projects{Projects: projects}, nil
	}
	for i, projEl := range el.all("project") {
		f := newFields(projEl, "projects", i)
		proj := model.Project{
			Name:         f.required("name"),
			Description:  f.required("description"),
			Technologies: parseTechnologies(projEl),
			URL:          f.optional("url"),
		}
		if f.err != nil {
			return model.Projects{}, f.err
		}
		projects = append(projects, proj)
	}
	return model.Projects{Projects: projects}, nil
}
