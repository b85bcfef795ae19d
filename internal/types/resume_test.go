package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionNames_CanonicalOrder(t *testing.T) {
	names := SectionNames()
	require.Len(t, names, 7)
	assert.Equal(t, SectionSummary, names[0])
	assert.Equal(t, SectionCertifications, names[6])
}

func TestResumeRecord_SectionRoundTrip(t *testing.T) {
	record := &ResumeRecord{}

	for _, name := range SectionNames() {
		record.SetSection(name, "content for "+name)
	}

	for _, name := range SectionNames() {
		assert.Equal(t, "content for "+name, record.Section(name))
	}
}

func TestResumeRecord_UnknownSection(t *testing.T) {
	record := &ResumeRecord{Summary: "original"}

	record.SetSection("references", "should be ignored")

	assert.Equal(t, "", record.Section("references"))
	assert.Equal(t, "original", record.Summary)
}

func TestResumeRecord_Clone(t *testing.T) {
	record := &ResumeRecord{
		Name:    "Ada Lovelace",
		Summary: "Built internal tools.",
		Skills:  "Go, SQL",
	}

	clone := record.Clone()
	clone.SetSection(SectionSummary, "rewritten")

	assert.Equal(t, "Built internal tools.", record.Summary)
	assert.Equal(t, "rewritten", clone.Summary)
	assert.Equal(t, record.Name, clone.Name)
}
