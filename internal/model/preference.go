package model

// MigrationPreference is the remembered answer to the day-rollover
// "carry yesterday's unfinished tasks forward?" prompt.
type MigrationPreference string

const (
	PreferenceUnset  MigrationPreference = ""
	PreferenceImport MigrationPreference = "import"
	PreferenceSkip   MigrationPreference = "skip"
)

// IsSet reports whether the user has recorded a choice.
func (p MigrationPreference) IsSet() bool {
	return p == PreferenceImport || p == PreferenceSkip
}
