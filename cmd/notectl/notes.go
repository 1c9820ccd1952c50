package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/note-api/pkg/client"
	"github.com/yukikurage/note-api/pkg/notestore"
)

var (
	listView   string
	listLabel  string
	listSearch string

	addContent string
	addPinned  bool

	rmAction string
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	Aliases: []string{"ls"},
	Short:   "List notes",
	Args:    cobra.NoArgs,
	RunE:    runNotes,
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Move a note to trash, restore it, or delete it for good",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var tagCmd = &cobra.Command{
	Use:   "tag <id> <label>...",
	Short: "Set the labels of a note, creating unknown labels",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTag,
}

func init() {
	notesCmd.Flags().StringVar(&listView, "view", string(notestore.ViewNotes), "notes, archive, trash or label")
	notesCmd.Flags().StringVar(&listLabel, "label", "", "label name (implies --view label)")
	notesCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive search over title and content")

	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "note body; lines become description items")
	addCmd.Flags().BoolVar(&addPinned, "pin", false, "pin the note")

	rmCmd.Flags().StringVar(&rmAction, "action", client.ActionBin, "bin, restore or permanent")

	rootCmd.AddCommand(notesCmd, addCmd, rmCmd, tagCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	view := notestore.View(listView)
	if listLabel != "" {
		view = notestore.ViewLabel
	}
	switch view {
	case notestore.ViewNotes, notestore.ViewArchive, notestore.ViewTrash, notestore.ViewLabel:
	default:
		return fmt.Errorf("unknown view %q", listView)
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	printNotes(os.Stdout, store.Filter(view, listLabel, listSearch))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	created, err := store.Create(cmd.Context(), notestore.NoteInput{
		Title:    strings.Join(args, " "),
		Content:  addContent,
		IsPinned: addPinned,
	})
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("created " + created.ID))
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	if err := store.Delete(cmd.Context(), args[0], rmAction); err != nil {
		return err
	}

	fmt.Println(successStyle.Render(rmAction + " " + args[0]))
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	note, ok := findNote(store.Notes(), args[0])
	if !ok {
		return fmt.Errorf("note not found: %s", args[0])
	}

	note.Labels = args[1:]
	if err := store.Update(cmd.Context(), note); err != nil {
		return err
	}

	updated, _ := findNote(store.Notes(), note.ID)
	fmt.Println(renderNote(updated))
	return nil
}

func findNote(notes []notestore.Note, id string) (notestore.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return notestore.Note{}, false
}
