package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tjfontaine/salon-intake/internal/export"
	"github.com/tjfontaine/salon-intake/internal/intake"
)

// NewClientsCommand creates the 'salonctl clients' command group
func NewClientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Look up clients",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Search clients by name or email",
		Args:  cobra.ExactArgs(1),
		RunE:  runClientsSearch,
	})
	return cmd
}

func runClientsSearch(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	clients, err := e.store.SearchClients(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(clients) == 0 {
		fmt.Fprintln(out, "No client found")
		return nil
	}
	faint := color.New(color.Faint).SprintFunc()
	for _, c := range clients {
		fmt.Fprintf(out, "%s  %-30s %s\n", faint(c.ID), c.FullName(), c.Email)
	}
	return nil
}

// NewProfileCommand creates the 'salonctl profile' command
func NewProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <client-id>",
		Short: "Print the derived profile of a client as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}
}

func runProfile(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.store.GetClient(cmd.Context(), args[0]); err != nil {
		return err
	}
	svc := intake.NewService(e.registry, e.store, slog.New(slog.DiscardHandler), intake.WithTranslator(e.translator))
	defer svc.Close()

	snapshot, err := svc.Profile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}

// NewExportCommand creates the 'salonctl export' command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <diagnostic-id>",
		Short: "Render a saved diagnostic as HTML or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().String("format", string(export.FormatHTML), "output format: html or md")
	cmd.Flags().StringP("output", "o", "", "output file (default: generated file name, - for stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.store.GetDiagnostic(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	c, err := e.store.GetClient(cmd.Context(), d.ClientID)
	if err != nil {
		return err
	}

	doc, err := export.NewRenderer(e.registry, e.translator).Render(d, c, format)
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(doc.Body)
		return err
	}
	if output == "" {
		output = doc.FileName
	}
	if err := os.WriteFile(output, doc.Body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Wrote"), output)
	return nil
}
