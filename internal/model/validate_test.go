package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCV() *CV {
	return &CV{
		PersonalInfo: PersonalInfo{Name: "Jane", Title: "Engineer", Email: "jane@example.com"},
		Experience: Experience{Jobs: []Job{{
			Company: "Acme", Position: "Dev", StartDate: "2020-01", EndDate: "Present",
			Location: "Remote", Description: "Work",
			Achievements: []Achievement{}, Technologies: []Technology{{Name: "Go"}},
		}}},
		Education: Education{Degrees: []Degree{{
			Institution: "Uni", Degree: "BSc", StartDate: "2015", EndDate: "2019-06",
			RelevantCourses: []Course{},
		}}},
		Skills: Skills{Categories: []SkillCategory{{
			Name: "Lang", Skills: []Skill{{Name: "Go", Level: LevelExpert}},
		}}},
		Certifications: Certifications{Certifications: []Certification{}},
		Projects:       Projects{Projects: []Project{}},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(validCV()))
}

func TestValidate_BadMonth(t *testing.T) {
	cv := validCV()
	cv.Experience.Jobs[0].StartDate = "2023-13"

	err := Validate(cv)
	require.Error(t, err)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	require.Len(t, se.Problems, 1)
	assert.Contains(t, se.Problems[0], "startDate")
}

func TestValidate_BadEmailAndLevel(t *testing.T) {
	cv := validCV()
	cv.PersonalInfo.Email = "not-an-email"
	cv.Skills.Categories[0].Skills[0].Level = "Guru"

	var se *SchemaError
	require.True(t, errors.As(Validate(cv), &se))
	assert.Len(t, se.Problems, 2)
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestParseSkillLevel(t *testing.T) {
	assert.Equal(t, LevelAdvanced, ParseSkillLevel("Advanced"))
	assert.Equal(t, LevelBeginner, ParseSkillLevel(""))
	assert.Equal(t, LevelBeginner, ParseSkillLevel("expert"))
}
