package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage the category registry",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories with their note counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			categories := store.NewCategoryDraft(s.Categories()).Filter(search)
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			return writeCategories(cmd.OutOrStdout(), categories)
		},
	}
	list.Flags().StringVar(&search, "search", "", "only categories whose name contains this")

	cmd.AddCommand(
		list,
		editRegistryCmd(app, "add <name>", "Add a category", 1, func(draft *store.CategoryDraft, args []string) error {
			if !draft.Create(args[0]) {
				return fmt.Errorf("category %q already exists", args[0])
			}
			return nil
		}),
		editRegistryCmd(app, "rename <id> <name>", "Rename a category", 2, func(draft *store.CategoryDraft, args []string) error {
			id, err := categoryID(args[0])
			if err != nil {
				return err
			}
			draft.Rename(id, args[1])
			return nil
		}),
		editRegistryCmd(app, "color <id> <color>", "Recolor a category", 2, func(draft *store.CategoryDraft, args []string) error {
			id, err := categoryID(args[0])
			if err != nil {
				return err
			}
			draft.Recolor(id, args[1])
			return nil
		}),
		editRegistryCmd(app, "rm <id>", "Delete a category; its notes become uncategorized", 1, func(draft *store.CategoryDraft, args []string) error {
			id, err := categoryID(args[0])
			if err != nil {
				return err
			}
			draft.Delete(id)
			return nil
		}),
	)
	return cmd
}

// editRegistryCmd loads the registry, applies edit to a draft of it and
// saves the whole draft if it changed.
func editRegistryCmd(app *App, use, short string, nargs int, edit func(*store.CategoryDraft, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			draft := store.NewCategoryDraft(s.Categories())
			if err := edit(draft, args); err != nil {
				return err
			}
			if !draft.Changed() {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing changed")
				return nil
			}
			if draft.Collides() {
				return store.ErrCategoryNamesCollide
			}

			snapshot, err := s.SaveCategoryRegistry(cmd.Context(), draft.Categories())
			if err != nil {
				return friendly(err)
			}
			managed := store.ManagedCategories(snapshot.Categories)
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), managed)
			}
			return writeCategories(cmd.OutOrStdout(), managed)
		},
	}
}

func categoryID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("category id %q: %w", arg, err)
	}
	if id == models.UncategorizedID {
		return 0, fmt.Errorf("category id %d is reserved", id)
	}
	return id, nil
}

func writeCategories(out io.Writer, categories []models.Category) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tNOTES")
	for _, category := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", category.ID, category.Name, category.Color, category.NoteCount)
	}
	return tw.Flush()
}
