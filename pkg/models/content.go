package models

// Typed content schemas for the structured sections of the site. Each
// section has an explicit field list; the translation service flattens
// these into dot-delimited content keys.

// Project is one portfolio project entry.
type Project struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features,omitempty"`
	Challenges  []string `json:"challenges,omitempty"`
	Learnings   []string `json:"learnings,omitempty"`
}

// ResumeItem is a single experience or education entry.
type ResumeItem struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Description  string `json:"description"`
}

// Resume is the resume section content.
type Resume struct {
	Summary    string       `json:"summary"`
	Experience []ResumeItem `json:"experience,omitempty"`
	Education  []ResumeItem `json:"education,omitempty"`
}

// ContactLabels are the form field labels on the contact page.
type ContactLabels struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Submit  string `json:"submit"`
}

// Contact is the contact section content.
type Contact struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Labels   ContactLabels `json:"labels"`
}
