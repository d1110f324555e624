package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"sgsync/core/reconcile"
	"sgsync/core/scheduler"
	"sgsync/feature/security"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile security command
	dryRunSecurity   bool
	stoppingSecurity bool
	yesConfirm       bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a reconciliation pass outside the daemon",
}

// securityReconcileCmd runs one ACL reconciliation pass.
var securityReconcileCmd = &cobra.Command{
	Use:   "security",
	Short: "Reconcile the storage-port ACL with cluster membership",
	Long: `Computes the ACL changes for the local node and applies them after confirmation.

The local node's own ranges are proposed because every CLI run starts unbootstrapped.
The plan printed in the report is the one applied after confirmation.

Examples:
  # Report only
  reconcile security --dry-run

  # Apply (with interactive confirmation)
  reconcile security

  # Revoke the local node's ranges, non-interactive
  reconcile security --stopping --yes`,
	RunE: runSecurityReconcile,
}

func init() {
	reconcileCmd.AddCommand(securityReconcileCmd)

	securityReconcileCmd.Flags().BoolVar(&dryRunSecurity, "dry-run", false, "Print the plan without changing the firewall")
	securityReconcileCmd.Flags().BoolVar(&stoppingSecurity, "stopping", false, "Plan as a stopping node (revoke own ranges)")
	securityReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm changes (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runSecurityReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	l := rt.logger

	state := scheduler.Running
	if stoppingSecurity {
		state = scheduler.Stopping
	}

	reconciler := security.NewReconciler(rt.provider, rt.store, rt.cfg.Cluster, l)

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...", zap.String("state", state.String()))
	plan, err := reconciler.Plan(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	// Step 2: Print report
	printReconcileReport(l, plan)

	if plan.Empty() {
		l.Info("ACL already converged, nothing to do.")
		return nil
	}
	if dryRunSecurity {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	// Apply the reported plan, not a fresh one.
	l.Info("Applying actions...")
	executed, err := reconciler.Apply(ctx, plan)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("current", s.Current),
		zap.Int("expected", s.Expected),
		zap.Int("add_actions", s.AddActions),
		zap.Int("remove_actions", s.RemoveActions),
	)

	for _, action := range plan.Actions {
		l.Info("Planned action",
			zap.String("type", string(action.Type)),
			zap.String("range", action.Key),
			zap.String("reason", action.Reason),
		)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply the ACL changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
