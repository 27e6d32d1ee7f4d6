package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"studentkeep/core/auth"
	"studentkeep/core/lifecycle"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query node status and health",
	Example: `  studentkeep status
  studentkeep status --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		status, err := client().GetStatus()
		if err != nil {
			fail(err)
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "json" {
			fmt.Println(status.ToJSON())
			return
		}
		fmt.Printf("Status: %s\nVersion: %s (%s)\nUptime: %ds\nAssets: %d\nStore reachable: %v\n",
			status.Status, status.Version, status.APIVersion, status.Uptime,
			status.AssetCount, status.Metrics.StoreReachable)
	},
}

// tokenCmd mints a development bearer token locally. It needs the node's
// JWT_SECRET, so it is only useful against nodes you operate.
var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint a development bearer token (requires JWT_SECRET)",
	Args:  cobra.ExactArgs(1),
	Example: `  JWT_SECRET=devsecret studentkeep token donor@example.org --role DONOR
  JWT_SECRET=devsecret studentkeep token tech7 --role TECHNICIAN --ttl 8h`,
	Run: func(cmd *cobra.Command, args []string) {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			fail(fmt.Errorf("JWT_SECRET is not set"))
		}
		roleStr, _ := cmd.Flags().GetString("role")
		org, _ := cmd.Flags().GetString("org")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		role := lifecycle.Role(roleStr)
		if !role.Valid() {
			fail(fmt.Errorf("unknown role %q", roleStr))
		}
		tok, err := auth.IssueToken(secret, args[0], role, org, ttl)
		if err != nil {
			fail(err)
		}
		fmt.Println(tok)
	},
}

func init() {
	statusCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
	tokenCmd.Flags().String("role", "", "Role claim: DONOR|TECHNICIAN|IPSS|ADMIN")
	tokenCmd.Flags().String("org", "", "Organization claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(statusCmd, tokenCmd)
}
