package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studentkeep/cli/api"
)

var (
	nodeURL   string
	authToken string
	apiKey    string
)

var rootCmd = &cobra.Command{
	Use:   "studentkeep",
	Short: "StudentKeep asset custody CLI",
	Long:  "A command-line tool for registering, tracking and querying donated equipment on a StudentKeep node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&nodeURL, "node", envOr("STUDENTKEEP_NODE", "http://localhost:8080"), "Base URL of the node")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("STUDENTKEEP_TOKEN"), "Bearer token for authenticated calls")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("STUDENTKEEP_API_KEY"), "Admin API key (ops tooling)")
}

func client() *api.Client {
	return api.New(nodeURL, authToken, apiKey)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
