package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/note-api/pkg/notestore"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List labels, including names only found on notes",
	Args:  cobra.NoArgs,
	RunE:  runLabels,
}

var labelRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(2),
	RunE:  runLabelRename,
}

var labelRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a label and remove it from every note",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelRm,
}

func init() {
	labelsCmd.AddCommand(labelRenameCmd, labelRmCmd)
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	printLabels(os.Stdout, store.Labels())
	return nil
}

func runLabelRename(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	label, ok := findLabel(store.Labels(), args[0])
	if !ok {
		return fmt.Errorf("label not found: %s", args[0])
	}

	if err := store.RenameLabel(cmd.Context(), label, args[1]); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("renamed " + args[0] + " to " + strings.TrimSpace(args[1])))
	return nil
}

func runLabelRm(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	label, ok := findLabel(store.Labels(), args[0])
	if !ok {
		return fmt.Errorf("label not found: %s", args[0])
	}

	if err := store.DeleteLabel(cmd.Context(), label); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("deleted " + label.Name))
	return nil
}

func findLabel(labels []notestore.Label, name string) (notestore.Label, bool) {
	for _, l := range labels {
		if l.Name == name {
			return l, true
		}
	}
	return notestore.Label{}, false
}
