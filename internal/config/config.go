package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DataDir is the directory holding books.csv, members.csv and loans.csv
	DataDir string
	// LoanDays is the loan period in days
	LoanDays int
	// LoanStartID is the first loan ID handed out
	LoanStartID int
	// MemberStartID is the first member ID handed out
	MemberStartID int
	// SkipInvalidRows makes stores skip malformed rows instead of failing
	SkipInvalidRows bool
	// AdminPassword seeds the librarian account when it is missing
	AdminPassword string
	// MaxAttempts is the login burst allowed before throttling
	MaxAttempts int
	// AttemptWindow is how long it takes to earn back one login attempt
	AttemptWindow time.Duration
	// Interactive enables the bubbletea book picker
	Interactive bool
	// ClearScreen clears the terminal between console menus
	ClearScreen bool
	// DatasetteDB is the SQLite file written by the sqlite export
	DatasetteDB string
)

// SetDefaults registers the default value of every configuration key.
func SetDefaults() {
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("loans.days", 14)
	viper.SetDefault("loans.start_id", 1)
	viper.SetDefault("members.start_id", 1001)
	viper.SetDefault("store.skip_invalid", false)
	viper.SetDefault("auth.admin_password", "library123")
	viper.SetDefault("auth.max_attempts", 5)
	viper.SetDefault("auth.attempt_window", "30s")
	viper.SetDefault("ui.interactive", true)
	viper.SetDefault("ui.clear_screen", true)
	viper.SetDefault("datasette.dbfile", "./libris.db")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	DataDir = viper.GetString("data.dir")
	LoanDays = viper.GetInt("loans.days")
	LoanStartID = viper.GetInt("loans.start_id")
	MemberStartID = viper.GetInt("members.start_id")
	SkipInvalidRows = viper.GetBool("store.skip_invalid")
	AdminPassword = viper.GetString("auth.admin_password")
	MaxAttempts = viper.GetInt("auth.max_attempts")
	AttemptWindow = viper.GetDuration("auth.attempt_window")
	Interactive = viper.GetBool("ui.interactive")
	ClearScreen = viper.GetBool("ui.clear_screen")
	DatasetteDB = viper.GetString("datasette.dbfile")
}

// SetDataDir sets the data directory
func SetDataDir(dir string) {
	DataDir = dir
}
