package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <assetId>",
	Short: "Fetch the current record of one asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := client().GetAsset(args[0])
		if err != nil {
			fail(err)
		}
		printAsset(cmd, a)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <assetId>",
	Short: "Show every committed version of an asset, oldest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := client().GetHistory(args[0])
		if err != nil {
			fail(err)
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "json" {
			b, _ := json.MarshalIndent(entries, "", "  ")
			fmt.Println(string(b))
			return
		}
		for i, e := range entries {
			var v struct {
				Status string `json:"status"`
			}
			json.Unmarshal(e.Value, &v)
			fmt.Printf("%3d  %s  tx=%s  status=%s\n", i, e.Timestamp, e.TxRef, v.Status)
		}
	},
}

var byStatusCmd = &cobra.Command{
	Use:   "by-status <status>",
	Short: "List assets currently in the given lifecycle status",
	Args:  cobra.ExactArgs(1),
	Example: `  studentkeep by-status QA_PASSED
  studentkeep by-status DONATED --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		assets, err := client().QueryByStatus(args[0])
		if err != nil {
			fail(err)
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "json" {
			b, _ := json.MarshalIndent(assets, "", "  ")
			fmt.Println(string(b))
			return
		}
		for _, a := range assets {
			fmt.Printf("%-24s %-28s %s\n", a.ID, a.Status, a.Location)
		}
		fmt.Printf("%d asset(s)\n", len(assets))
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range <startKey> <endKey>",
	Short: "Scan assets by key range (end exclusive)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rows, err := client().QueryByKeyRange(args[0], args[1])
		if err != nil {
			fail(err)
		}
		for _, row := range rows {
			fmt.Printf("%-24s %s\n", row.Key, row.Asset.Status)
		}
		fmt.Printf("%d asset(s)\n", len(rows))
	},
}

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the operations the node accepts",
	Run: func(cmd *cobra.Command, args []string) {
		ops, err := client().Operations()
		if err != nil {
			fail(err)
		}
		for _, op := range ops {
			fmt.Println(op)
		}
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show the node's recent lifecycle notifications",
	Run: func(cmd *cobra.Command, args []string) {
		emissions, err := client().Notifications()
		if err != nil {
			fail(err)
		}
		for _, e := range emissions {
			fmt.Printf("%s  %s  %s\n", e.EmittedAt, e.Event, string(e.Payload))
		}
	},
}

func init() {
	historyCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
	byStatusCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
	getCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
	rootCmd.AddCommand(getCmd, historyCmd, byStatusCmd, rangeCmd, operationsCmd, notificationsCmd)
}
