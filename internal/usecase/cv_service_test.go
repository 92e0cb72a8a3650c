package usecase

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"cv-site/internal/parser"
	"cv-site/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu   sync.Mutex
	data []byte
	err  error
}

func (s *stubSource) Fetch(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.err
}

func (s *stubSource) set(data []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data, s.err = data, err
}

func sampleXML(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("../../data/cv-data.xml")
	require.NoError(t, err)
	return b
}

const minimalXML = `<cv>
  <personalInfo><name>Jane</name><title>Engineer</title></personalInfo>
  <experience/><education/><skills/>
</cv>`

func TestCVService_NotLoaded(t *testing.T) {
	svc := NewCVService(&stubSource{}, nil, nil)
	_, err := svc.CV()
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.PersonalInfoFields()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestCVService_Load(t *testing.T) {
	svc := NewCVService(&stubSource{data: sampleXML(t)}, parser.New(nil), nil)
	require.NoError(t, svc.Load(context.Background()))

	cv, err := svc.CV()
	require.NoError(t, err)
	assert.Equal(t, "Alex Morgan", cv.PersonalInfo.Name)

	sections, err := svc.Sections()
	require.NoError(t, err)
	assert.Len(t, sections, 6)

	fields, err := svc.PersonalInfoFields()
	require.NoError(t, err)
	assert.Equal(t, "name", fields[0].Key)

	jobs, err := svc.SectionFields(render.SectionExperience)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	assert.Empty(t, svc.Current().Warnings)
}

func TestCVService_MinimalDocument(t *testing.T) {
	svc := NewCVService(&stubSource{data: []byte(minimalXML)}, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	sections, err := svc.Sections()
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, render.SectionPersonalInfo, sections[0].Key)
}

func TestCVService_FailedLoadDiscardsPrevious(t *testing.T) {
	src := &stubSource{data: sampleXML(t)}
	svc := NewCVService(src, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	src.set([]byte("<cv><personalInfo>"), nil)
	err := svc.Reload(context.Background())
	var perr *parser.XMLParseError
	require.ErrorAs(t, err, &perr)

	cv, err := svc.CV()
	assert.Nil(t, cv)
	assert.ErrorAs(t, err, &perr)

	src.set(nil, errors.New("disk gone"))
	err = svc.Reload(context.Background())
	assert.ErrorContains(t, err, "fetch cv: disk gone")

	src.set(sampleXML(t), nil)
	require.NoError(t, svc.Reload(context.Background()))
	cv, err = svc.CV()
	require.NoError(t, err)
	assert.NotNil(t, cv)
}

func TestCVService_SchemaWarnings(t *testing.T) {
	xml := `<cv>
  <personalInfo><name>Jane</name><title>Engineer</title></personalInfo>
  <experience><job>
    <company>Acme</company><position>Dev</position>
    <startDate>2023-13</startDate><endDate>Present</endDate>
    <location>Remote</location><description>Work</description>
  </job></experience>
  <education/><skills/>
</cv>`
	svc := NewCVService(&stubSource{data: []byte(xml)}, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	st := svc.Current()
	require.NoError(t, st.Err)
	require.Len(t, st.Warnings, 1)
	assert.Contains(t, st.Warnings[0], "startDate")

	jobs, err := svc.SectionFields(render.SectionExperience)
	require.NoError(t, err)
	assert.Equal(t, "2023-13", jobs[0][2].Display)
}

func TestCVService_ConcurrentReaders(t *testing.T) {
	svc := NewCVService(&stubSource{data: sampleXML(t)}, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.Reload(context.Background())
		}()
		go func() {
			defer wg.Done()
			st := svc.Current()
			if st.Err == nil {
				assert.Equal(t, len(st.Sections), 6)
			}
		}()
	}
	wg.Wait()
}
