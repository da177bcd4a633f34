package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mitindbo/indbo/internal/client"
	"github.com/mitindbo/indbo/internal/inventory"
	"github.com/mitindbo/indbo/internal/model"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Administrér tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Vis alle tags",
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

		tags, _ := ctrl.Lookups()
		if query, _ := cmd.Flags().GetString("search"); query != "" {
			tags = inventory.FilterTags(tags, query)
		}
		if len(tags) == 0 {
			fmt.Println("Ingen tags fundet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNavn\tBeskrivelse\tAntal indbo")
		for _, tag := range tags {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", tag.ID, tag.Name, tag.Description, ctrl.TagUsage(tag.ID))
		}
		return w.Flush()
	},
}

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Administrér steder",
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Vis alle steder",
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

		_, places := ctrl.Lookups()
		if query, _ := cmd.Flags().GetString("search"); query != "" {
			places = inventory.FilterPlaces(places, query)
		}
		if len(places) == 0 {
			fmt.Println("Ingen steder fundet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNavn\tBeskrivelse\tAntal indbo")
		for _, place := range places {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", place.ID, place.Name, place.Description, ctrl.PlaceUsage(place.ID))
		}
		return w.Flush()
	},
}

// lookupOps abstracts the tag and place CRUD so both command trees share the
// add/edit/delete implementations.
type lookupOps struct {
	kind    string
	create  func(ctx context.Context, a *app, input client.LookupInput) (int64, string, error)
	update  func(ctx context.Context, a *app, id int64, input client.LookupInput) error
	remove  func(ctx context.Context, a *app, id int64) error
	nameOf  func(ctrl *inventory.Controller, id int64) string
	usageOf func(ctrl *inventory.Controller, id int64) int
}

var tagOps = lookupOps{
	kind: "tag",
	create: func(ctx context.Context, a *app, input client.LookupInput) (int64, string, error) {
		tag, err := a.api.CreateTag(ctx, input)
		if err != nil {
			return 0, "", err
		}
		return tag.ID, tag.Name, nil
	},
	update: func(ctx context.Context, a *app, id int64, input client.LookupInput) error {
		_, err := a.api.UpdateTag(ctx, id, input)
		return err
	},
	remove:  func(ctx context.Context, a *app, id int64) error { return a.api.DeleteTag(ctx, id) },
	nameOf:  func(ctrl *inventory.Controller, id int64) string { return ctrl.TagName(id) },
	usageOf: func(ctrl *inventory.Controller, id int64) int { return ctrl.TagUsage(id) },
}

var placeOps = lookupOps{
	kind: "sted",
	create: func(ctx context.Context, a *app, input client.LookupInput) (int64, string, error) {
		place, err := a.api.CreatePlace(ctx, input)
		if err != nil {
			return 0, "", err
		}
		return place.ID, place.Name, nil
	},
	update: func(ctx context.Context, a *app, id int64, input client.LookupInput) error {
		_, err := a.api.UpdatePlace(ctx, id, input)
		return err
	},
	remove:  func(ctx context.Context, a *app, id int64) error { return a.api.DeletePlace(ctx, id) },
	nameOf:  func(ctrl *inventory.Controller, id int64) string { return ctrl.PlaceName(id) },
	usageOf: func(ctrl *inventory.Controller, id int64) int { return ctrl.PlaceUsage(id) },
}

func lookupAddCmd(ops lookupOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAVN",
		Short: fmt.Sprintf("Opret et %s", ops.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.ValidateLookupName(args[0]); err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			description, _ := cmd.Flags().GetString("description")
			id, name, err := ops.create(cmd.Context(), a, client.LookupInput{
				Name:        args[0],
				Description: description,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Oprettet: %s (id %d)\n", name, id)
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "Beskrivelse")
	return cmd
}

func lookupEditCmd(ops lookupOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: fmt.Sprintf("Rediger et %s", ops.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("ugyldigt id: %s", args[0])
			}

			name, _ := cmd.Flags().GetString("name")
			if err := model.ValidateLookupName(name); err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			description, _ := cmd.Flags().GetString("description")
			if err := ops.update(cmd.Context(), a, id, client.LookupInput{
				Name:        name,
				Description: description,
			}); err != nil {
				return err
			}

			fmt.Println("Opdateret.")
			return nil
		},
	}
	cmd.Flags().StringP("name", "n", "", "Nyt navn")
	cmd.Flags().StringP("description", "d", "", "Ny beskrivelse")
	return cmd
}

func lookupDeleteCmd(ops lookupOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Slet et %s", ops.kind),
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

			ctrl, err := a.controller(cmd.Context(), inventory.Filter{})
			if err != nil {
				return err
			}

			name := ops.nameOf(ctrl, id)
			prompt := fmt.Sprintf("Er du sikker på, at du vil slette %q?", name)
			if used := ops.usageOf(ctrl, id); used > 0 {
				prompt = fmt.Sprintf("%q bruges af %d stykker indbo. Er du sikker på, at du vil slette det?", name, used)
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(prompt) {
				fmt.Println("Annulleret.")
				return nil
			}

			if err := ops.remove(cmd.Context(), a, id); err != nil {
				return err
			}
			fmt.Printf("Slettet: %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Spring bekræftelsen over")
	return cmd
}

func init() {
	tagsListCmd.Flags().StringP("search", "s", "", "Filtrér på navn eller beskrivelse")
	placesListCmd.Flags().StringP("search", "s", "", "Filtrér på navn eller beskrivelse")

	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(lookupAddCmd(tagOps))
	tagsCmd.AddCommand(lookupEditCmd(tagOps))
	tagsCmd.AddCommand(lookupDeleteCmd(tagOps))

	placesCmd.AddCommand(placesListCmd)
	placesCmd.AddCommand(lookupAddCmd(placeOps))
	placesCmd.AddCommand(lookupEditCmd(placeOps))
	placesCmd.AddCommand(lookupDeleteCmd(placeOps))

	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(placesCmd)
}
