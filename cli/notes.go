package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/spf13/cobra"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List and change notes",
	}
	cmd.AddCommand(
		newNotesListCmd(app),
		newNotesAddCmd(app),
		newNotesEditCmd(app),
		newNotesRmCmd(app),
		newNotesMoveCmd(app),
	)
	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			notes := slices.Collect(s.Filter(search))
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), notes)
			}
			return writeNotes(cmd.OutOrStdout(), notes)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only notes whose title, description or category contains this, or with this tag")
	return cmd
}

type draftFlags struct {
	title       string
	description string
	category    string
	color       string
	tags        []string
}

func (f *draftFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "note title")
	cmd.Flags().StringVar(&f.description, "description", "", "note description")
	cmd.Flags().StringVar(&f.category, "category", "", "category name, created if it does not exist")
	cmd.Flags().StringVar(&f.color, "color", "", "category color")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag, repeatable")
}

func (f *draftFlags) draft() models.NoteDraft {
	return models.NoteDraft{
		Title:       f.title,
		Description: f.description,
		Category:    models.CategoryRef{Name: f.category, Color: f.color},
		Tags:        f.tags,
	}
}

func newNotesAddCmd(app *App) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			snapshot, err := s.CreateNote(cmd.Context(), flags.draft())
			if err != nil {
				return friendly(err)
			}
			return app.printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newNotesEditCmd(app *App) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("note id %q: %w", args[0], err)
			}
			s, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			idx := slices.IndexFunc(s.Notes(), func(note models.Note) bool { return note.ID == id })
			if idx < 0 {
				return fmt.Errorf("%w: %d", store.ErrNoteNotFound, id)
			}
			current := s.Notes()[idx]

			draft := models.NoteDraft{
				Title:       current.Title,
				Description: current.Description,
				Category:    current.Category,
				Tags:        current.Tags,
			}
			changed := cmd.Flags().Changed
			if changed("title") {
				draft.Title = flags.title
			}
			if changed("description") {
				draft.Description = flags.description
			}
			if changed("category") {
				draft.Category = models.CategoryRef{Name: flags.category, Color: flags.color}
			} else if changed("color") {
				draft.Category.Color = flags.color
			}
			if changed("tag") {
				draft.Tags = flags.tags
			}

			snapshot, issued, err := s.UpdateNote(cmd.Context(), id, draft)
			if err != nil {
				return friendly(err)
			}
			if !issued {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing changed")
			}
			return app.printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newNotesRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("note id %q: %w", args[0], err)
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			snapshot, err := store.New(client).DeleteNote(cmd.Context(), id)
			if err != nil {
				return friendly(err)
			}
			return app.printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
}

func newNotesMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the note at one list position to another and save the order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("from %q: %w", args[0], err)
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("to %q: %w", args[1], err)
			}

			s, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := s.Reorder(from, to); err != nil {
				return err
			}
			snapshot, err := s.PersistOrder(cmd.Context())
			if err != nil {
				s.DiscardReorder()
				return friendly(err)
			}
			return app.printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
}

func (a *App) printSnapshot(out io.Writer, snapshot store.Snapshot) error {
	if a.JSON {
		return writeJSON(out, snapshot)
	}
	return writeNotes(out, snapshot.Notes)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeNotes(out io.Writer, notes []models.Note) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tCATEGORY\tTAGS")
	for _, note := range notes {
		category := note.Category.Name
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", note.DisplayIndex, note.ID, note.Title, category, strings.Join(note.Tags, ","))
	}
	return tw.Flush()
}
