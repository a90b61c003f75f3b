package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiFlag     string
	timeoutFlag time.Duration
	rootCmd     = &cobra.Command{
		Use:   "journalctl",
		Short: "CLI client for the chillpill journal API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:5000", "Journal service base URL")
	rootCmd.PersistentFlags().DurationVarP(&timeoutFlag, "timeout", "t", 30*time.Second, "Request timeout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
