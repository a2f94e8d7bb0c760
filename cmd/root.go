package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mysql-table-backup/internal/application"
)

// CLI flag variables
var (
	runBackup  bool
	runRestore bool
	configFile string
	directory  string
	verbose    bool
	quiet      bool
	logFile    string
	timeout    time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mysql-table-backup",
	Short: "Table-scoped backup and restore of MySQL data as portable JSON snapshots",
	Long: `mysql-table-backup saves the rows of configured MySQL tables to one JSON
snapshot file per table, and restores them into another database even when the
destination schema has drifted: snapshot columns missing on the destination are
dropped per row, and per-row constraint violations are logged without aborting
the rest of the run.

The configuration file lists the tables and the two connection groups:

  [tables]
  tables = users, posts, comments

  [backup]
  host = localhost
  user = root
  password = secret
  database = production

  [restore]
  host = localhost
  user = root
  password = secret
  database = staging

Examples:
  # Back up all configured tables into the current directory
  mysql-table-backup --backup --file config.cfg

  # Restore snapshots from ./dumps, with verbose logging
  mysql-table-backup --restore --file config.cfg --directory ./dumps -v

  # Do both; backup always runs before restore
  mysql-table-backup --backup --restore --file config.cfg --directory ./dumps`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&runBackup, "backup", false, "backup the configured tables")
	rootCmd.Flags().BoolVar(&runRestore, "restore", false, "restore the configured tables")
	rootCmd.Flags().StringVarP(&configFile, "file", "f", "./config.cfg", "configuration file with tables and connection groups")
	rootCmd.Flags().StringVarP(&directory, "directory", "d", ".", "directory where snapshot files are stored or retrieved")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to file in addition to stdout")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "database operation timeout")

	viper.BindPFlag("backup", rootCmd.Flags().Lookup("backup"))
	viper.BindPFlag("restore", rootCmd.Flags().Lookup("restore"))
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	viper.BindPFlag("directory", rootCmd.Flags().Lookup("directory"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.Flags().Lookup("quiet"))
	viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))

	viper.SetEnvPrefix("MYSQL_TABLE_BACKUP")
	viper.AutomaticEnv()

	rootCmd.AddCommand(createVersionCommand())
}

// run validates the flag combination and hands off to the application
func run(cmd *cobra.Command, args []string) error {
	resolveFlags()

	if err := validateFlags(); err != nil {
		return err
	}

	app, err := application.NewApplication(application.Config{
		ConfigFile: configFile,
		Directory:  directory,
		Backup:     runBackup,
		Restore:    runRestore,
		Verbose:    verbose,
		Quiet:      quiet,
		LogFile:    logFile,
		Timeout:    timeout,
	})
	if err != nil {
		return err
	}

	return app.Run()
}

// resolveFlags reads the effective values back through viper, so
// MYSQL_TABLE_BACKUP_* environment variables override flags left at their
// defaults.
func resolveFlags() {
	runBackup = viper.GetBool("backup")
	runRestore = viper.GetBool("restore")
	configFile = viper.GetString("file")
	directory = viper.GetString("directory")
	verbose = viper.GetBool("verbose")
	quiet = viper.GetBool("quiet")
	logFile = viper.GetString("log_file")
	timeout = viper.GetDuration("timeout")
}

// validateFlags validates CLI flags and their combinations
func validateFlags() error {
	if !runBackup && !runRestore {
		return fmt.Errorf("an action is required: either --backup or --restore")
	}

	if verbose && quiet {
		return fmt.Errorf("--verbose and --quiet flags are mutually exclusive")
	}

	if timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}

	return nil
}

// Version information (set by main package)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mysql-table-backup version %s\n", version)
			fmt.Printf("Built: %s\n", buildTime)
			fmt.Printf("Commit: %s\n", gitCommit)
		},
	}
}
