package model

// Go models for the CV document. Optional strings are empty when the source
// element is absent; collections are never nil once parsed.

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
	LevelExpert       SkillLevel = "Expert"
)

// ParseSkillLevel maps an attribute value onto a known level. Anything
// missing or unrecognized is treated as Beginner.
func ParseSkillLevel(s string) SkillLevel {
	switch l := SkillLevel(s); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return l
	default:
		return LevelBeginner
	}
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type Achievement struct {
	Text string `json:"text"`
}

func (a Achievement) String() string { return a.Text }

type Technology struct {
	Name string `json:"name"`
}

func (t Technology) String() string { return t.Name }

type Course struct {
	Name string `json:"name"`
}

func (c Course) String() string { return c.Name }

type Job struct {
	Company      string        `json:"company"`
	Position     string        `json:"position"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Location     string        `json:"location"`
	Description  string        `json:"description"`
	Achievements []Achievement `json:"achievements"`
	Technologies []Technology  `json:"technologies"`
}

type Experience struct {
	Jobs []Job `json:"jobs"`
}

type Degree struct {
	Institution     string   `json:"institution"`
	Degree          string   `json:"degree"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	GPA             string   `json:"gpa,omitempty"`
	Honors          string   `json:"honors,omitempty"`
	RelevantCourses []Course `json:"relevantCourses"`
}

type Education struct {
	Degrees []Degree `json:"degrees"`
}

type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

func (s Skill) String() string { return s.Name }

type SkillCategory struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

type Skills struct {
	Categories []SkillCategory `json:"categories"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId,omitempty"`
}

type Certifications struct {
	Certifications []Certification `json:"certifications"`
}

type Project struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Technologies []Technology `json:"technologies"`
	URL          string       `json:"url,omitempty"`
}

type Projects struct {
	Projects []Project `json:"projects"`
}

// CV is the root aggregate. It is built once per load and never mutated.
type CV struct {
	PersonalInfo   PersonalInfo   `json:"personalInfo"`
	Experience     Experience     `json:"experience"`
	Education      Education      `json:"education"`
	Skills         Skills         `json:"skills"`
	Certifications Certifications `json:"certifications"`
	Projects       Projects       `json:"projects"`
}
