package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"studentkeep/cli/api"
)

// Commands for the mutating lifecycle operations. Each prints the updated
// record, optionally as JSON.

func printAsset(cmd *cobra.Command, a api.Asset) {
	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		fmt.Println(a.ToJSON())
		return
	}
	fmt.Printf("Asset: %s\nStatus: %s\nOwner: %s\nLocation: %s\nEvents: %d\n",
		a.ID, a.Status, a.OwnerType, a.Location, len(a.Events))
}

var registerCmd = &cobra.Command{
	Use:   "register <assetId>",
	Short: "Register a new donation (DONOR)",
	Args:  cobra.ExactArgs(1),
	Example: `  studentkeep register laptop-0042 --serial SN123 --make Lenovo --model T480
  studentkeep register laptop-0042 --serial SN123 --make Lenovo --model T480 --donor donor@example.org`,
	Run: func(cmd *cobra.Command, args []string) {
		serial, _ := cmd.Flags().GetString("serial")
		mk, _ := cmd.Flags().GetString("make")
		model, _ := cmd.Flags().GetString("model")
		donor, _ := cmd.Flags().GetString("donor")
		meta, _ := cmd.Flags().GetString("metadata-ref")
		a, err := client().RegisterDonation(args[0], serial, mk, model, donor, meta)
		if err != nil {
			fail(err)
		}
		printAsset(cmd, a)
	},
}

var intakeCmd = &cobra.Command{
	Use:   "intake <assetId>",
	Short: "Record hub intake of a donated asset (IPSS or TECHNICIAN)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evidence, _ := cmd.Flags().GetString("evidence-ref")
		location, _ := cmd.Flags().GetString("location")
		a, err := client().Intake(args[0], evidence, location)
		if err != nil {
			fail(err)
		}
		printAsset(cmd, a)
	},
}

var interventionCmd = &cobra.Command{
	Use:   "intervention <assetId>",
	Short: "Record a DIAGNOSTIC, REPAIR, QA or FAILED_QA event (TECHNICIAN)",
	Args:  cobra.ExactArgs(1),
	Example: `  studentkeep intervention laptop-0042 --type DIAGNOSTIC --technician tech7
  studentkeep intervention laptop-0042 --type QA --report-ref qa-report-19`,
	Run: func(cmd *cobra.Command, args []string) {
		eventType, _ := cmd.Flags().GetString("type")
		tech, _ := cmd.Flags().GetString("technician")
		report, _ := cmd.Flags().GetString("report-ref")
		location, _ := cmd.Flags().GetString("location")
		a, err := client().RecordIntervention(args[0], eventType, tech, report, location)
		if err != nil {
			fail(err)
		}
		printAsset(cmd, a)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <assetId>",
	Short: "Transfer custody to an institution (IPSS)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		institution, _ := cmd.Flags().GetString("institution")
		proof, _ := cmd.Flags().GetString("proof-ref")
		a, err := client().Transfer(args[0], institution, proof)
		if err != nil {
			fail(err)
		}
		printAsset(cmd, a)
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <assetId>",
	Short: "Assign an asset to its final beneficiary (IPSS)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		beneficiary, _ := cmd.Flags().GetString("beneficiary")
		proof, _ := cmd.Flags().GetString("proof-ref")
		a, err := client().Assign(args[0], beneficiary, proof)
		if err != nil {
			fail(err)
		}
		printAsset(cmd, a)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the ledger with its sample record (ADMIN)",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := client().InitLedger()
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created %d record(s)\n", out["created"])
	},
}

func init() {
	registerCmd.Flags().String("serial", "", "Device serial number (hashed on the node, never stored)")
	registerCmd.Flags().String("make", "", "Device make")
	registerCmd.Flags().String("model", "", "Device model")
	registerCmd.Flags().String("donor", "", "Donor identifier (hashed on the node)")
	registerCmd.Flags().String("metadata-ref", "", "Off-ledger metadata reference")
	registerCmd.MarkFlagRequired("serial")

	intakeCmd.Flags().String("evidence-ref", "", "Off-ledger intake evidence reference")
	intakeCmd.Flags().String("location", "", "Intake location (default: donation hub)")

	interventionCmd.Flags().String("type", "", "Event type: DIAGNOSTIC|REPAIR|QA|FAILED_QA")
	interventionCmd.Flags().String("technician", "", "Technician identifier (hashed on the node)")
	interventionCmd.Flags().String("report-ref", "", "Off-ledger report reference")
	interventionCmd.Flags().String("location", "", "Location of the work")
	interventionCmd.MarkFlagRequired("type")

	transferCmd.Flags().String("institution", "", "Receiving institution identifier (hashed on the node)")
	transferCmd.Flags().String("proof-ref", "", "Off-ledger handover proof reference")
	transferCmd.MarkFlagRequired("institution")

	assignCmd.Flags().String("beneficiary", "", "Beneficiary identifier (hashed on the node)")
	assignCmd.Flags().String("proof-ref", "", "Off-ledger assignment proof reference")
	assignCmd.MarkFlagRequired("beneficiary")

	for _, c := range []*cobra.Command{registerCmd, intakeCmd, interventionCmd, transferCmd, assignCmd} {
		c.Flags().StringP("output", "o", "plain", "Output format: plain|json")
	}

	rootCmd.AddCommand(registerCmd, intakeCmd, interventionCmd, transferCmd, assignCmd, initCmd)
}
