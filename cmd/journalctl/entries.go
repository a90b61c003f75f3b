package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	addCmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Write a new journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(newClient(apiFlag, timeoutFlag), strings.Join(args, " "), os.Stdout)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(newClient(apiFlag, timeoutFlag), os.Stdout)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(apiFlag, timeoutFlag), args[0], os.Stdout)
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace the text of an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(newClient(apiFlag, timeoutFlag), args[0], strings.Join(args[1:], " "), os.Stdout)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(newClient(apiFlag, timeoutFlag), args[0], os.Stdout)
		},
	}

	moodCmd := &cobra.Command{
		Use:   "mood",
		Short: "Show lowest and highest moments and the recent average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMood(newClient(apiFlag, timeoutFlag), os.Stdout)
		},
	}

	rootCmd.AddCommand(addCmd, listCmd, getCmd, editCmd, deleteCmd, moodCmd)
}
