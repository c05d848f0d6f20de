package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/binref/idabuild/internal/project"
	"github.com/binref/idabuild/internal/toolchain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	installVerbose bool
	installSDKRoot string
	installDest    string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Build and install targets marked install in ida.yaml",
	Long:  `Install builds the manifest targets and copies those marked install into the IDA user plugins directory.`,
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installVerbose, "verbose", "v", false, "Enable verbose build output")
	installCmd.Flags().StringVar(&installSDKRoot, "sdk", "", "IDA SDK root directory")
	installCmd.Flags().StringVar(&installDest, "dest", "", "Install destination (default: IDA user plugins directory)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	proj, err := configureProject(installSDKRoot, m)
	if err != nil {
		return err
	}
	tc := toolchain.New(proj)
	if !installVerbose {
		tc.SetOutput(io.Discard, io.Discard)
	}
	if err := tc.Build(cmd.Context()); err != nil {
		return err
	}

	installed := 0
	for _, t := range proj.Targets() {
		if t.Kind == project.KindImported || t.InstallDir == "" {
			continue
		}
		dest := t.InstallDir
		if installDest != "" {
			dest = installDest
		}
		if err := installArtifact(proj.ArtifactPath(t), dest); err != nil {
			return fmt.Errorf("install %s: %w", t.Name, err)
		}
		logrus.Infof("installed %s to %s", t.OutputName, dest)
		installed++
	}
	if installed == 0 {
		logrus.Warn("no targets marked install in the manifest")
	}
	return nil
}

func installArtifact(src, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(destDir, filepath.Base(src)))
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
