package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"sgsync/core/config"
	"sgsync/core/database"
	"sgsync/core/scheduler"
	"sgsync/feature/firewall"
	"sgsync/feature/membership"
	"sgsync/feature/security"

	"go.uber.org/zap"
)

// Prints the dry-run plan of the local node as JSON, reading members and
// ranges from the SQL backends only.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	provider := firewall.NewDatabaseProvider(db)
	registry := membership.NewDatabaseRegistry(db)

	state := scheduler.Running
	if len(os.Args) > 1 && os.Args[1] == "stopping" {
		state = scheduler.Stopping
	}

	plan, err := security.NewReconciler(provider, registry, cfg.Cluster, zap.NewNop()).Plan(ctx, state)
	if err != nil {
		log.Fatal(err)
	}

	out, _ := json.MarshalIndent(plan, "", "  ")
	fmt.Println(string(out))
}
