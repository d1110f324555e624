package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var membersRegion string

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Inspect the membership registry",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered members of the configured application",
	RunE:  runMembersList,
}

func init() {
	membersListCmd.Flags().StringVar(&membersRegion, "region", "", "Only show members of this region")
	membersCmd.AddCommand(membersListCmd)
	RootCmd.AddCommand(membersCmd)
}

func runMembersList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	members, err := rt.store.ListMembers(ctx, rt.cfg.Cluster.AppName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE\tREGION\tHOST NAME\tHOST IP\tUPDATED")
	shown := 0
	for _, m := range members {
		if membersRegion != "" && m.Region != membersRegion {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.InstanceID, m.Region, m.HostName, m.HostIP, m.UpdatedAt.Format("2006-01-02 15:04:05"))
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	rt.logger.Debug("Listed members", zap.Int("count", shown), zap.Int("total", len(members)))
	return nil
}
