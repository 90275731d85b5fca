package models

// Candidate documents are created outside this service; we only read them.
type Candidate struct {
	ID                  string              `bson:"id" json:"id"`
	PersonalInformation PersonalInformation `bson:"personal_information" json:"personal_information"`
	WorkExperience      []WorkExperience    `bson:"work_experience,omitempty" json:"work_experience,omitempty"`
	Education           []Education         `bson:"education,omitempty" json:"education,omitempty"`
	Skills              []string            `bson:"skills,omitempty" json:"skills,omitempty"`
	Position            string              `bson:"position,omitempty" json:"position,omitempty"`
}

type PersonalInformation struct {
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
}

type WorkExperience struct {
	Title       string `bson:"title" json:"title"`
	Company     string `bson:"company,omitempty" json:"company,omitempty"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	Degree      string `bson:"degree" json:"degree"`
	Institution string `bson:"institution,omitempty" json:"institution,omitempty"`
	Year        string `bson:"year,omitempty" json:"year,omitempty"`
}

// CandidateSummary is the condensed profile handed to the question oracle.
type CandidateSummary struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	ExperienceYears int      `json:"experience_years"`
	LatestRole      string   `json:"latest_role"`
	EducationLevel  string   `json:"education_level"`
	Skills          []string `json:"skills"`
}

func (c *Candidate) Summary() CandidateSummary {
	s := CandidateSummary{
		Name:            orDefault(c.PersonalInformation.Name, "Unknown"),
		Email:           orDefault(c.PersonalInformation.Email, "Unknown"),
		ExperienceYears: len(c.WorkExperience),
		LatestRole:      "No experience",
		EducationLevel:  "Unknown",
		Skills:          c.Skills,
	}
	if len(c.WorkExperience) > 0 {
		s.LatestRole = orDefault(c.WorkExperience[0].Title, "Unknown")
	}
	if len(c.Education) > 0 {
		s.EducationLevel = orDefault(c.Education[0].Degree, "Unknown")
	}
	if s.Skills == nil {
		s.Skills = []string{}
	}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
