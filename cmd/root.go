package cmd

import (
	"fmt"
	"os"

	"sgsync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sgsync",
	Short: "Cluster firewall ACL reconciler",
	Long: `sgsync keeps the storage-port firewall rules of a multi-region cluster
in step with its live membership: same-region peers by private address,
remote peers by public address, departed nodes revoked.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console + debug gives readable ISO8601 output for a CLI failure.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
