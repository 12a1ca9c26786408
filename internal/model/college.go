package model

// College represents an admitting institution. It belongs to exactly one State.
type College struct {
	ID      int    `json:"id" mapstructure:"id"`
	Name    string `json:"name" mapstructure:"name"`
	StateID int    `json:"state_id" mapstructure:"state_id"`
}
