package model

// UnknownCollegeName is reported when a cutoff references a missing college.
const UnknownCollegeName = "Unknown"

// Cutoff is the last admitted rank for one category at one college.
// StateID duplicates the owning college's state.
type Cutoff struct {
	ID          int    `json:"id" mapstructure:"id"`
	CollegeID   int    `json:"college_id" mapstructure:"college_id"`
	StateID     int    `json:"state_id" mapstructure:"state_id"`
	Category    string `json:"category" mapstructure:"category"`
	ClosingRank int    `json:"closing_rank" mapstructure:"closing_rank"`
}

// CutoffWithCollege is a Cutoff annotated with its college's name.
type CutoffWithCollege struct {
	Cutoff      `mapstructure:",squash"`
	CollegeName string `json:"college_name" mapstructure:"-"`
}
