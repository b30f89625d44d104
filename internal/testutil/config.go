package testutil

import (
	"testing"

	"github.com/lepinkainen/libris/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DataDir         string
	LoanDays        int
	SkipInvalidRows bool
	AdminPassword   string
	Interactive     bool
	ClearScreen     bool
	DatasetteDB     string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DataDir:         config.DataDir,
		LoanDays:        config.LoanDays,
		SkipInvalidRows: config.SkipInvalidRows,
		AdminPassword:   config.AdminPassword,
		Interactive:     config.Interactive,
		ClearScreen:     config.ClearScreen,
		DatasetteDB:     config.DatasetteDB,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DataDir = state.DataDir
	config.LoanDays = state.LoanDays
	config.SkipInvalidRows = state.SkipInvalidRows
	config.AdminPassword = state.AdminPassword
	config.Interactive = state.Interactive
	config.ClearScreen = state.ClearScreen
	config.DatasetteDB = state.DatasetteDB
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig points the data directory and export database into env,
// turns off the interactive picker and screen clearing, and restores the
// previous state when the test completes.
func SetTestConfig(t *testing.T, env *TestEnv) {
	t.Helper()

	ResetConfig(t)
	config.InitConfig()

	config.DataDir = env.Path("data")
	config.DatasetteDB = env.Path("libris.db")
	config.Interactive = false
	config.ClearScreen = false
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	// viper has no Unset, so keys that were never set keep the test value
	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
	})
}
