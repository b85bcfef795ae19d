// Package types defines the shared data structures for the resume optimization pipeline.
package types

// Section names used throughout the pipeline. Every ResumeRecord carries all
// of these keys; unset sections hold an empty string.
const (
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionWorkExperience = "work_experience"
	SectionProjects       = "projects"
	SectionEducation      = "education"
	SectionPublications   = "publications"
	SectionCertifications = "certifications"
)

// SectionNames lists all resume sections in their canonical order.
func SectionNames() []string {
	return []string{
		SectionSummary,
		SectionSkills,
		SectionWorkExperience,
		SectionProjects,
		SectionEducation,
		SectionPublications,
		SectionCertifications,
	}
}

// ResumeRecord holds the content of one resume, keyed by section.
// The set of sections is fixed: the pipeline never adds or removes keys.
type ResumeRecord struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	Summary        string `json:"summary"`
	Skills         string `json:"skills"`
	WorkExperience string `json:"work_experience"`
	Projects       string `json:"projects"`
	Education      string `json:"education"`
	Publications   string `json:"publications"`
	Certifications string `json:"certifications"`
}

// Section returns the content of the named section.
// Unknown names return an empty string.
func (r *ResumeRecord) Section(name string) string {
	switch name {
	case SectionSummary:
		return r.Summary
	case SectionSkills:
		return r.Skills
	case SectionWorkExperience:
		return r.WorkExperience
	case SectionProjects:
		return r.Projects
	case SectionEducation:
		return r.Education
	case SectionPublications:
		return r.Publications
	case SectionCertifications:
		return r.Certifications
	}
	return ""
}

// SetSection replaces the content of the named section.
// Unknown names are ignored, preserving the fixed key set.
func (r *ResumeRecord) SetSection(name, text string) {
	switch name {
	case SectionSummary:
		r.Summary = text
	case SectionSkills:
		r.Skills = text
	case SectionWorkExperience:
		r.WorkExperience = text
	case SectionProjects:
		r.Projects = text
	case SectionEducation:
		r.Education = text
	case SectionPublications:
		r.Publications = text
	case SectionCertifications:
		r.Certifications = text
	}
}

// Clone returns a copy of the record. The pipeline operates on clones so the
// caller's record is never mutated.
func (r *ResumeRecord) Clone() *ResumeRecord {
	clone := *r
	return &clone
}
