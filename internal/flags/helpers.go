package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/hongbao-labs/hongbao/params"
)

// NewApp creates an app with sane defaults derived from build metadata.
func NewApp(gitCommit, gitDate, usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	app.Copyright = "Copyright 2024-2026 The hongbao Authors"
	app.HideVersion = false
	return app
}

// Merge combines multiple flag slices for commands that share flag groups.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}
