package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/runtime"
)

// errValidation is returned when at least one catalog fails validation.
var errValidation = errors.New("catalog validation failed")

// NewCatalogCommand creates the 'salonctl catalog' command group
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate question catalogs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the active catalogs",
		Args:  cobra.NoArgs,
		RunE:  runCatalogList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <category>",
		Short: "Print the questions of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog file, or the active catalogs",
		Long: `Validate every catalog of a YAML override file. Without a file the
built-in catalogs and the configured override are checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCatalogValidate,
	})
	return cmd
}

func activeRegistry(cmd *cobra.Command) (*catalog.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	registry, _, err := runtime.NewRegistry(cfg.Catalog, slog.New(slog.DiscardHandler))
	return registry, err
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	registry, err := activeRegistry(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	for _, c := range registry.List() {
		fmt.Fprintf(out, "%-10s %-28s %2d questions (rev %d)\n",
			bold(c.Category), c.Title, len(c.Questions), registry.Revision(c.Category))
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	c, err := catalog.ParseCategory(args[0])
	if err != nil {
		return err
	}
	registry, err := activeRegistry(cmd)
	if err != nil {
		return err
	}
	cat, err := registry.Get(c)
	if err != nil {
		return err
	}
	printCatalog(cmd.OutOrStdout(), cat)
	return nil
}

func printCatalog(out io.Writer, cat *catalog.Catalog) {
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s (%s)\n", cat.Title, cat.Category)
	for i, q := range cat.Questions {
		kind := string(q.Kind)
		if q.AllowMultiple {
			kind += ", multiple"
			if q.MaxSelections > 0 {
				kind += fmt.Sprintf(" max %d", q.MaxSelections)
			}
		}
		fmt.Fprintf(out, "%2d. %s [%s] %s\n", i+1, cyan(q.ID), kind, q.Prompt)
		if q.Visibility != nil {
			fmt.Fprintf(out, "    %s\n", faint(fmt.Sprintf("when %s = %s", q.Visibility.DependsOn, q.Visibility.Match)))
		}
		if len(q.Options) > 0 {
			values := make([]string, len(q.Options))
			for j, o := range q.Options {
				values[j] = o.Value
			}
			fmt.Fprintf(out, "    %s\n", faint(strings.Join(values, " | ")))
		}
	}
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	var (
		cats   []*catalog.Catalog
		source string
	)
	if len(args) == 1 {
		source = args[0]
		loaded, err := catalog.LoadFile(source)
		if err != nil {
			fail(cmd.OutOrStdout(), source, err)
			return errValidation
		}
		cats = loaded
	} else {
		registry, err := activeRegistry(cmd)
		if err != nil {
			fail(cmd.OutOrStdout(), "active catalogs", err)
			return errValidation
		}
		source = "active"
		cats = registry.List()
	}

	failed := false
	for _, c := range cats {
		label := fmt.Sprintf("%s %s", source, c.Category)
		if err := c.Validate(); err != nil {
			fail(cmd.OutOrStdout(), label, err)
			failed = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d questions)\n", color.GreenString("OK"), label, len(c.Questions))
	}
	if failed {
		return errValidation
	}
	return nil
}

func fail(out io.Writer, label string, err error) {
	fmt.Fprintf(out, "%s %s: %v\n", color.RedString("FAIL"), label, err)
}
