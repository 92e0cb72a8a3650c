package parser

import (
	"errors"
	"os"
	"strings"
	"testing"

	"cv-site/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/full.xml")
	require.NoError(t, err)
	return b
}

func TestParse_FullDocument(t *testing.T) {
	cv, err := Parse(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "John Doe", cv.PersonalInfo.Name)
	assert.Equal(t, "Software Engineer", cv.PersonalInfo.Title)
	assert.Equal(t, "Experienced software engineer.", cv.PersonalInfo.Summary)
	assert.Equal(t, "https://github.com/johndoe", cv.PersonalInfo.GitHub)
	assert.Empty(t, cv.PersonalInfo.LinkedIn)
	assert.Empty(t, cv.PersonalInfo.Website)

	require.Len(t, cv.Experience.Jobs, 2)
	job := cv.Experience.Jobs[0]
	assert.Equal(t, "Tech Company", job.Company)
	assert.Equal(t, "Present", job.EndDate)
	assert.Equal(t, []model.Achievement{{Text: "Improved performance by 50%"}, {Text: "Mentored four engineers"}}, job.Achievements)
	assert.Equal(t, []model.Technology{{Name: "React"}, {Name: "Node.js"}}, job.Technologies)
	assert.Equal(t, "Startup", cv.Experience.Jobs[1].Company)
	assert.NotNil(t, cv.Experience.Jobs[1].Achievements)
	assert.Empty(t, cv.Experience.Jobs[1].Achievements)

	require.Len(t, cv.Education.Degrees, 1)
	deg := cv.Education.Degrees[0]
	assert.Equal(t, "Bachelor of Science in Computer Science", deg.Degree)
	assert.Equal(t, "3.8", deg.GPA)
	assert.Equal(t, []model.Course{{Name: "Data Structures"}, {Name: "Algorithms"}}, deg.RelevantCourses)

	require.Len(t, cv.Skills.Categories, 1)
	cat := cv.Skills.Categories[0]
	assert.Equal(t, "Programming Languages", cat.Name)
	assert.Equal(t, []model.Skill{
		{Name: "JavaScript", Level: model.LevelExpert},
		{Name: "Go", Level: model.LevelAdvanced},
		{Name: "Rust", Level: model.LevelBeginner},
		{Name: "Perl", Level: model.LevelBeginner},
	}, cat.Skills)

	require.Len(t, cv.Certifications.Certifications, 1)
	assert.Equal(t, "ABC-123", cv.Certifications.Certifications[0].CredentialID)

	require.Len(t, cv.Projects.Projects, 1)
	assert.Equal(t, "https://shop.example.com", cv.Projects.Projects[0].URL)
}

func TestParse_Idempotent(t *testing.T) {
	data := loadFixture(t)
	a, err := Parse(data)
	require.NoError(t, err)
	b, err := Parse(data)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("parse not idempotent (-first +second):\n%s", diff)
	}
}

func TestParse_OptionalSectionsAbsent(t *testing.T) {
	doc := `<cv>
  <personalInfo><name>Jane</name><title>Engineer</title></personalInfo>
  <experience/>
  <education></education>
  <skills/>
</cv>`
	cv, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.NotNil(t, cv.Certifications.Certifications)
	assert.Empty(t, cv.Certifications.Certifications)
	assert.NotNil(t, cv.Projects.Projects)
	assert.Empty(t, cv.Projects.Projects)
	assert.Empty(t, cv.Experience.Jobs)
}

func TestParse_MissingSection(t *testing.T) {
	doc := strings.Replace(string(loadFixture(t)), "<skills>", "<skillz>", 1)
	doc = strings.Replace(doc, "</skills>", "</skillz>", 1)

	_, err := Parse([]byte(doc))
	require.Error(t, err)

	var mse *MissingSectionError
	require.True(t, errors.As(err, &mse), "got %T: %v", err, err)
	assert.Equal(t, "skills", mse.Section)
}

func TestParse_SectionMustBeDirectChild(t *testing.T) {
	doc := `<cv>
  <personalInfo><name>Jane</name><title>Engineer</title></personalInfo>
  <experience><education/></experience>
  <skills/>
</cv>`
	_, err := Parse([]byte(doc))
	var mse *MissingSectionError
	require.ErrorAs(t, err, &mse)
	assert.Equal(t, "education", mse.Section)
}

func TestParse_MissingField(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		field   string
		element string
		index   int
	}{
		{
			name:    "personal name",
			doc:     `<cv><personalInfo><title>T</title></personalInfo><experience/><education/><skills/></cv>`,
			field:   "name",
			element: "personalInfo",
			index:   -1,
		},
		{
			name:    "blank title",
			doc:     `<cv><personalInfo><name>N</name><title>  </title></personalInfo><experience/><education/><skills/></cv>`,
			field:   "title",
			element: "personalInfo",
			index:   -1,
		},
		{
			name: "second job company",
			doc: `<cv><personalInfo><name>N</name><title>T</title></personalInfo><experience>
<job><company>A</company><position>P</position><startDate>2020-01</startDate><endDate>Present</endDate><location>L</location><description>D</description></job>
<job><position>P</position><startDate>2020-01</startDate><endDate>Present</endDate><location>L</location><description>D</description></job>
</experience><education/><skills/></cv>`,
			field:   "company",
			element: "job",
			index:   1,
		},
		{
			name: "certification issuer",
			doc: `<cv><personalInfo><name>N</name><title>T</title></personalInfo><experience/><education/><skills/>
<certifications><certification><name>C</name><date>2020-01</date></certification></certifications></cv>`,
			field:   "issuer",
			element: "certification",
			index:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv, err := Parse([]byte(tt.doc))
			assert.Nil(t, cv)
			var mfe *MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, tt.field, mfe.Field)
			assert.Equal(t, tt.element, mfe.Element)
			assert.Equal(t, tt.index, mfe.Index)
		})
	}
}

func TestParse_NestedDegreeNotCountedTwice(t *testing.T) {
	doc := `<cv><personalInfo><name>N</name><title>T</title></personalInfo><experience/>
<education>
  <degree>
    <institution>MIT</institution>
    <degree>BSc</degree>
    <startDate>2010-09</startDate>
    <endDate>2014-06</endDate>
  </degree>
</education><skills/></cv>`
	cv, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, cv.Education.Degrees, 1)
	assert.Equal(t, "BSc", cv.Education.Degrees[0].Degree)
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"unclosed":   "<invalid>xml<unclosed>",
		"empty":      "",
		"wrong root": "<resume><personalInfo/></resume>",
		"bad token":  "<cv><personalInfo></cv>",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			var xpe *XMLParseError
			require.ErrorAs(t, err, &xpe)
			assert.NotEmpty(t, xpe.Diagnostic)
			assert.Contains(t, err.Error(), "failed to parse XML")
		})
	}
}

func TestParse_Latin1Encoding(t *testing.T) {
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><cv><personalInfo><name>Jos`), 0xe9)
	doc = append(doc, []byte(`</name><title>T</title></personalInfo><experience/><education/><skills/></cv>`)...)

	cv, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "José", cv.PersonalInfo.Name)
}
