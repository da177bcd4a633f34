package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mitindbo/indbo/internal/export"
	"github.com/mitindbo/indbo/internal/imaging"
	"github.com/mitindbo/indbo/internal/inventory"
	"github.com/mitindbo/indbo/internal/model"
	"github.com/mitindbo/indbo/internal/session"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Se og rediger dit indbo",
}

// listFilter builds the view filter from the command flags. When no filter
// flag is set, the last saved view state is restored; otherwise the new state
// is saved for next time.
func listFilter(ctx context.Context, cmd *cobra.Command, a *app) inventory.Filter {
	query, _ := cmd.Flags().GetString("search")
	tagID, _ := cmd.Flags().GetInt64("tag")
	archived, _ := cmd.Flags().GetBool("archived")

	touched := cmd.Flags().Changed("search") || cmd.Flags().Changed("tag") || cmd.Flags().Changed("archived")
	if !touched {
		if state, err := a.store.ViewState(ctx); err == nil && state != nil {
			return inventory.Filter{Query: state.Query, TagID: state.TagID, ShowArchived: state.ShowArchived}
		}
		return inventory.Filter{}
	}

	state := &session.ViewState{Query: query, TagID: tagID, ShowArchived: archived}
	if err := a.store.SaveViewState(ctx, state); err != nil {
		// Not fatal, the listing itself still works.
		fmt.Fprintf(os.Stderr, "kunne ikke gemme visning: %v\n", err)
	}
	return inventory.Filter{Query: query, TagID: tagID, ShowArchived: archived}
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Vis indbo-listen",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl, err := a.controller(cmd.Context(), listFilter(cmd.Context(), cmd, a))
		if err != nil {
			return err
		}

		if specs, _ := cmd.Flags().GetStringSlice("sort"); len(specs) > 0 {
			keys, err := inventory.ParseSortKeys(specs)
			if err != nil {
				return err
			}
			ctrl.SetSort(keys...)
		}

		if page, _ := cmd.Flags().GetInt("page"); page > 0 {
			ctrl.SetPage(page - 1)
		}

		view := ctrl.View()
		if len(view) == 0 {
			fmt.Println("Ingen indbo fundet.")
			return nil
		}

		rows := ctrl.CurrentPage()
		if all, _ := cmd.Flags().GetBool("all"); all {
			rows = view
		}

		printItemTable(rows, ctrl)

		if len(rows) < len(view) {
			start := ctrl.Page()*ctrl.PageSize() + 1
			end := start + len(rows) - 1
			fmt.Printf("\nViser %d til %d af %d indbo (side %d af %d)\n",
				start, end, len(view), ctrl.Page()+1, ctrl.PageCount())
		}
		return nil
	},
}

// printItemTable renders rows with resolved tag and place names.
func printItemTable(rows []model.Item, ctrl *inventory.Controller) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNavn\tTags\tSted\tPris\tKøbsdato")
	for i := range rows {
		item := &rows[i]

		tags := make([]string, len(item.Tags))
		for j, id := range item.Tags {
			tags[j] = ctrl.TagName(id)
		}
		place := ""
		if item.Place != nil {
			place = ctrl.PlaceName(*item.Place)
		}
		price := ""
		if item.Price != nil {
			price = export.FormatPrice(*item.Price)
		}
		name := item.Name
		if item.Archived {
			name += " (arkiveret)"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, name, strings.Join(tags, ", "), place, price, item.PurchaseDate)
	}
	w.Flush()
}

var itemsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Vis detaljer for et stykke indbo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("ugyldigt id: %s", args[0])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		item, err := a.api.GetItem(ctx, id)
		if err != nil {
			return err
		}

		ctrl, err := a.controller(ctx, inventory.Filter{})
		if err != nil {
			return err
		}

		fmt.Printf("Navn:         %s\n", item.Name)
		if item.Description != "" {
			fmt.Printf("Beskrivelse:  %s\n", item.Description)
		}
		if len(item.Tags) > 0 {
			tags := make([]string, len(item.Tags))
			for i, tagID := range item.Tags {
				tags[i] = ctrl.TagName(tagID)
			}
			fmt.Printf("Tags:         %s\n", strings.Join(tags, ", "))
		}
		if item.Place != nil {
			fmt.Printf("Sted:         %s\n", ctrl.PlaceName(*item.Place))
		}
		if item.SerialNumber != "" {
			fmt.Printf("Serienummer:  %s\n", item.SerialNumber)
		}
		if item.Price != nil {
			fmt.Printf("Pris:         %s\n", export.FormatPrice(*item.Price))
		}
		if item.PurchaseDate != "" {
			fmt.Printf("Købsdato:     %s\n", item.PurchaseDate)
		}
		if item.Archived {
			fmt.Println("Status:       arkiveret")
		}

		images, err := a.api.ListImages(ctx, id)
		if err != nil {
			return err
		}
		documents, err := a.api.ListDocuments(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Billeder:     %d\n", len(images))
		if len(documents) > 0 {
			fmt.Println("Dokumenter:")
			for _, doc := range documents {
				fmt.Printf("  %d  %s (%s)\n", doc.ID, doc.Filename, doc.ContentType)
			}
		}
		return nil
	},
}

// itemFromFlags applies the item flags to item. Only flags the user actually
// set are applied, so the same code serves both add and edit.
func itemFromFlags(cmd *cobra.Command, item *model.Item) error {
	flags := cmd.Flags()

	if flags.Changed("name") {
		item.Name, _ = flags.GetString("name")
	}
	if flags.Changed("description") {
		item.Description, _ = flags.GetString("description")
	}
	if flags.Changed("serial") {
		item.SerialNumber, _ = flags.GetString("serial")
	}
	if flags.Changed("date") {
		date, _ := flags.GetString("date")
		if date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("ugyldig købsdato %q, brug formatet ÅÅÅÅ-MM-DD", date)
			}
		}
		item.PurchaseDate = date
	}
	if flags.Changed("price") {
		price, _ := flags.GetFloat64("price")
		item.Price = &price
	}
	if flags.Changed("tag") {
		item.Tags, _ = flags.GetInt64Slice("tag")
	}
	if flags.Changed("place") {
		place, _ := flags.GetInt64("place")
		if place == 0 {
			item.Place = nil
		} else {
			item.Place = &place
		}
	}
	return nil
}

// attachFromFlags loads photo and document files named by the flags onto the
// item payload.
func attachFromFlags(ctx context.Context, cmd *cobra.Command, item *model.Item) error {
	photoPaths, _ := cmd.Flags().GetStringSlice("image")
	if len(photoPaths) > 0 {
		for _, res := range imaging.LoadPhotos(ctx, photoPaths) {
			if res.Err != nil {
				return res.Err
			}
			item.Images = append(item.Images, res.Transport)
		}
	}

	docPaths, _ := cmd.Flags().GetStringSlice("document")
	if len(docPaths) > 0 {
		docs, err := imaging.LoadDocuments(docPaths)
		if err != nil {
			return err
		}
		item.Documents = append(item.Documents, docs...)
	}
	return nil
}

// itemFlags registers the shared add/edit flag set.
func itemFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("name", "n", "", "Navn")
	cmd.Flags().StringP("description", "d", "", "Beskrivelse")
	cmd.Flags().String("serial", "", "Serienummer")
	cmd.Flags().Float64P("price", "p", 0, "Pris i kroner")
	cmd.Flags().String("date", "", "Købsdato (ÅÅÅÅ-MM-DD)")
	cmd.Flags().Int64SliceP("tag", "t", nil, "Tag-id (kan gentages)")
	cmd.Flags().Int64("place", 0, "Sted-id (0 fjerner stedet)")
	cmd.Flags().StringSlice("image", nil, "Billedfil der vedhæftes (kan gentages)")
	cmd.Flags().StringSlice("document", nil, "Dokumentfil der vedhæftes (kan gentages)")
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Tilføj nyt indbo",
	RunE: func(cmd *cobra.Command, args []string) error {
		var item model.Item
		if err := itemFromFlags(cmd, &item); err != nil {
			return err
		}
		if err := attachFromFlags(cmd.Context(), cmd, &item); err != nil {
			return err
		}
		if err := model.ValidateItem(&item); err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.api.CreateItem(cmd.Context(), &item)
		if err != nil {
			return err
		}

		fmt.Printf("Tilføjet: %s (id %d)\n", created.Name, created.ID)
		return nil
	},
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Rediger et stykke indbo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("ugyldigt id: %s", args[0])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		item, err := a.api.GetItem(ctx, id)
		if err != nil {
			return err
		}

		if err := itemFromFlags(cmd, item); err != nil {
			return err
		}
		if err := attachFromFlags(ctx, cmd, item); err != nil {
			return err
		}
		item.ImagesToRemove, _ = cmd.Flags().GetInt64Slice("remove-image")
		item.DocumentsToRemove, _ = cmd.Flags().GetInt64Slice("remove-document")

		if err := model.ValidateItem(item); err != nil {
			return err
		}

		updated, err := a.api.UpdateItem(ctx, id, item)
		if err != nil {
			return err
		}

		fmt.Printf("Opdateret: %s (id %d)\n", updated.Name, updated.ID)
		return nil
	},
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Slet et stykke indbo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("ugyldigt id: %s", args[0])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		item, err := a.api.GetItem(ctx, id)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(fmt.Sprintf("Er du sikker på, at du vil slette %q?", item.Name)) {
			fmt.Println("Annulleret.")
			return nil
		}

		if err := a.api.DeleteItem(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Slettet: %s\n", item.Name)
		return nil
	},
}

var itemsArchiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Arkivér et stykke indbo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("ugyldigt id: %s", args[0])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		item, err := a.api.GetItem(ctx, id)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(fmt.Sprintf("Er du sikker på, at du vil arkivere %q?", item.Name)) {
			fmt.Println("Annulleret.")
			return nil
		}

		if err := a.api.ArchiveItem(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Arkiveret: %s\n", item.Name)
		return nil
	},
}

var itemsUnarchiveCmd = &cobra.Command{
	Use:   "unarchive ID",
	Short: "Genaktivér et arkiveret stykke indbo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("ugyldigt id: %s", args[0])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.api.UnarchiveItem(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Genaktiveret.")
		return nil
	},
}

var itemsExportCmd = &cobra.Command{
	Use:   "export [FIL]",
	Short: "Eksportér den filtrerede liste som CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl, err := a.controller(cmd.Context(), listFilter(cmd.Context(), cmd, a))
		if err != nil {
			return err
		}

		path := export.Filename(time.Now())
		if len(args) > 0 {
			path = args[0]
		}

		// The full filtered view is exported, not just the current page.
		view := ctrl.View()
		tags, places := ctrl.Lookups()

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		if err := export.Write(f, view, tags, places); err != nil {
			f.Close()
			os.Remove(path)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}

		fmt.Printf("Eksporteret %d indbo til %s\n", len(view), path)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Vis et overblik over dit indbo",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl, err := a.controller(cmd.Context(), inventory.Filter{})
		if err != nil {
			return err
		}

		stats := ctrl.Stats()
		fmt.Printf("Indbo i alt:     %d\n", stats.TotalItems)
		fmt.Printf("Samlet værdi:    %s\n", export.FormatPrice(stats.TotalValue))
		fmt.Printf("Med pris:        %d\n", stats.WithPrice)
		fmt.Printf("Med serienummer: %d\n", stats.WithSerial)
		if len(stats.Recent) > 0 {
			fmt.Println("Senest tilføjet:")
			for _, item := range stats.Recent {
				fmt.Printf("  %s\n", item.Name)
			}
		}
		return nil
	},
}

// listFlags registers the shared filter flag set for list and export.
func listFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Fritekstsøgning")
	cmd.Flags().Int64P("tag", "t", 0, "Vis kun indbo med dette tag-id")
	cmd.Flags().Bool("archived", false, "Medtag arkiveret indbo")
}

func init() {
	listFlags(itemsListCmd)
	itemsListCmd.Flags().StringSlice("sort", nil, "Sortering, fx price:desc eller name (kan gentages)")
	itemsListCmd.Flags().Int("page", 0, "Sidenummer")
	itemsListCmd.Flags().Bool("all", false, "Vis alle rækker uden sideinddeling")

	itemFlags(itemsAddCmd)
	itemFlags(itemsEditCmd)
	itemsEditCmd.Flags().Int64Slice("remove-image", nil, "Billed-id der fjernes (kan gentages)")
	itemsEditCmd.Flags().Int64Slice("remove-document", nil, "Dokument-id der fjernes (kan gentages)")

	itemsDeleteCmd.Flags().BoolP("yes", "y", false, "Spring bekræftelsen over")
	itemsArchiveCmd.Flags().BoolP("yes", "y", false, "Spring bekræftelsen over")

	listFlags(itemsExportCmd)

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsShowCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsEditCmd)
	itemsCmd.AddCommand(itemsDeleteCmd)
	itemsCmd.AddCommand(itemsArchiveCmd)
	itemsCmd.AddCommand(itemsUnarchiveCmd)
	itemsCmd.AddCommand(itemsExportCmd)

	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(statsCmd)
}
