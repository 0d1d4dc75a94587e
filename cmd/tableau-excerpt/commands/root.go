// Package commands implements the CLI commands for tableau-excerpt.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/halostatue/tableau-excerpt-extension/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tableau-excerpt",
	Short: "Derive excerpts for content files",
	Long: `tableau-excerpt derives a short excerpt for each content file from
its body: text between range markers, text before a split marker, or the
leading paragraphs, sentences or words of the document.

Files whose front matter already carries an excerpt key are left alone.

Examples:
  # Report what would be extracted across a content tree
  tableau-excerpt extract content/

  # Write derived excerpts back into front matter
  tableau-excerpt extract --write content/

  # Use a split marker and a word-count fallback
  tableau-excerpt extract --marker-pattern '<!-- fold -->' \
      --strategy word --count 30 content/posts`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.tableau-excerpt.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".tableau-excerpt")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TABLEAU_EXCERPT")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
