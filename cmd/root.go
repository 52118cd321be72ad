package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logitmc",
	Short: "Bayesian multinomial-logit estimation by Metropolis-Hastings MCMC",
	Long: `logitmc estimates multinomial-logit discrete-choice models.
Among other features:

  - A grouped-choice CSV reader with strict task validation
  - A random-walk Metropolis-Hastings sampler with a reproducible seeded chain
  - An MLE fit for side-by-side posterior/point-estimate comparison
  - A synthetic conjoint simulator for end-to-end checks
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "TOML config file with sampler settings")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")

	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func chat(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
