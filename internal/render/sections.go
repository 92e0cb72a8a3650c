// Package render decides which parts of a CV are shown and how their values
// are turned into display strings.
package render

import "cv-site/internal/model"

type SectionKey string

const (
	SectionPersonalInfo   SectionKey = "personalInfo"
	SectionExperience     SectionKey = "experience"
	SectionEducation      SectionKey = "education"
	SectionSkills         SectionKey = "skills"
	SectionCertifications SectionKey = "certifications"
	SectionProjects       SectionKey = "projects"
)

// SectionConfig describes one top-level section of the page.
type SectionConfig struct {
	Key     SectionKey `json:"key"`
	Title   string     `json:"title"`
	Icon    string     `json:"icon,omitempty"`
	Order   int        `json:"order"`
	Visible bool       `json:"visible"`
	HasData bool       `json:"hasData"`
}

// Sections returns the sections of cv that have data, in canonical order.
// Personal info is always included.
func Sections(cv *model.CV) []SectionConfig {
	if cv == nil {
		return nil
	}
	all := []SectionConfig{
		section(SectionPersonalInfo, "Personal Information", "person", 1, true),
		section(SectionExperience, "Professional Experience", "work", 2, len(cv.Experience.Jobs) > 0),
		section(SectionEducation, "Education", "school", 3, len(cv.Education.Degrees) > 0),
		section(SectionSkills, "Skills & Technologies", "code", 4, len(cv.Skills.Categories) > 0),
		section(SectionCertifications, "Certifications", "verified", 5, len(cv.Certifications.Certifications) > 0),
		section(SectionProjects, "Projects", "folder", 6, len(cv.Projects.Projects) > 0),
	}
	out := all[:0]
	for _, s := range all {
		if s.HasData {
			out = append(out, s)
		}
	}
	return out
}

func section(key SectionKey, title, icon string, order int, hasData bool) SectionConfig {
	return SectionConfig{Key: key, Title: title, Icon: icon, Order: order, Visible: hasData, HasData: hasData}
}

// ParseSectionKey reports whether s names one of the six sections.
func ParseSectionKey(s string) (SectionKey, bool) {
	switch k := SectionKey(s); k {
	case SectionPersonalInfo, SectionExperience, SectionEducation,
		SectionSkills, SectionCertifications, SectionProjects:
		return k, true
	}
	return "", false
}

var sectionGlyphs = map[SectionKey]string{
	SectionPersonalInfo:   "\U0001F464",
	SectionExperience:     "\U0001F4BC",
	SectionEducation:      "\U0001F393",
	SectionSkills:         "⚡",
	SectionCertifications: "\U0001F3C6",
	SectionProjects:       "\U0001F4C1",
}

// Glyph is the emoji shown next to a section title.
func (k SectionKey) Glyph() string {
	if g, ok := sectionGlyphs[k]; ok {
		return g
	}
	return "\U0001F4C4"
}
