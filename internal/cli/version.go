package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/pkg/version"
)

// versionInfo is the JSON form of the version command.
type versionInfo struct {
	Version   string `json:"version"`
	Major     uint64 `json:"major"`
	Minor     uint64 `json:"minor"`
	Patch     uint64 `json:"patch"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short {
				cmd.Println(version.GetVersion())
				return nil
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format != config.FormatTable {
				v := version.Parsed()
				return renderJSON(cmd.OutOrStdout(), versionInfo{
					Version:   v.String(),
					Major:     v.Major(),
					Minor:     v.Minor(),
					Patch:     v.Patch(),
					GitCommit: version.GetGitCommit(),
					BuildDate: version.GetBuildDate(),
				})
			}
			cmd.Println(version.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
