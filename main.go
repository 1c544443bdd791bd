package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "eloss",
	Short: "Energy filter placement for electrons crossing a tilted specimen",
	Long: `eloss models the energy lost by electrons crossing a specimen of known shape
and tilt and places the energy filter keeping the most of them. For every
tilt it reports the filter position and the fraction and energy spread of the
elastic and inelastic electrons passing it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every evaluated angle")
	rootCmd.AddCommand(newRunCommand(), newThicknessCommand(), newPositionCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
