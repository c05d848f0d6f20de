package internal

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "idabuild",
	Short: "idabuild configures and builds IDA Pro SDK plugins",
	Long: `idabuild locates an installed IDA SDK, derives the compiler and
linker settings its headers require, and builds plugin, loader and
library targets declared in ida.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
