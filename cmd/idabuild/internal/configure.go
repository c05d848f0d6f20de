package internal

import (
	"fmt"

	"github.com/binref/idabuild/internal/sdk"
	"github.com/spf13/cobra"
)

var configureSDKRoot string

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Locate the IDA SDK and print the resolved configuration",
	Long: `Configure resolves the SDK root from --sdk, $IDASDK_ROOT or ../idasdk,
classifies the host platform and verifies the prebuilt SDK libraries exist.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureSDKRoot, "sdk", "", "IDA SDK root directory")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	s, err := sdk.Locate(configureSDKRoot)
	if err != nil {
		return err
	}
	plat, err := sdk.Host()
	if err != nil {
		return err
	}
	if _, err := s.Libraries(plat); err != nil {
		return err
	}

	fmt.Printf("root:     %s\n", s.Root)
	fmt.Printf("include:  %s\n", s.IncludeDir)
	fmt.Printf("platform: %s (%s)\n", plat.OS, plat.Tag)
	version := s.Version
	if version == "" {
		version = "unknown"
	}
	fmt.Printf("version:  %s\n", version)
	return nil
}
