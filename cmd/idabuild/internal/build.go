package internal

import (
	"io"

	"github.com/binref/idabuild/internal/project"
	"github.com/binref/idabuild/internal/toolchain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	buildVerbose bool
	buildSDKRoot string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the targets declared in ida.yaml",
	Long:  `Build declares every target from ida.yaml against the located SDK and compiles and links them.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Enable verbose build output")
	buildCmd.Flags().StringVar(&buildSDKRoot, "sdk", "", "IDA SDK root directory")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	proj, err := configureProject(buildSDKRoot, m)
	if err != nil {
		return err
	}
	logrus.Infof("IDA SDK %s at %s (%s)", proj.SDK.Version, proj.SDK.Root, proj.Platform.Tag)
	logrus.Infof("building %d targets", len(m.Targets))

	tc := toolchain.New(proj)
	if !buildVerbose {
		tc.SetOutput(io.Discard, io.Discard)
	}
	if err := tc.Build(cmd.Context()); err != nil {
		return err
	}
	for _, t := range proj.Targets() {
		if t.Kind == project.KindImported {
			continue
		}
		logrus.Infof("built %s", proj.ArtifactPath(t))
	}
	return nil
}
