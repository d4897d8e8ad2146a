package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/TrevorS/betadiv"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported beta-diversity measures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printMeasures(cmd.OutOrStdout())
		},
	}
}

func printMeasures(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("Measures (use -w for abundance-weighted variants):\n")
	for _, m := range betadiv.Measures() {
		if m.IsDiagnostic() {
			continue
		}
		writeMeasure(&sb, m)
	}
	sb.WriteString("\nDiagnostics:\n")
	for _, m := range betadiv.Measures() {
		if m.IsDiagnostic() {
			writeMeasure(&sb, m)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMeasure(sb *strings.Builder, m betadiv.Measure) {
	fmt.Fprintf(sb, "  %s", m)
	if aliases := m.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(sb, " [%s]", strings.Join(aliases, ", "))
	}
	if aka := m.AlsoKnownAs(); aka != "" {
		fmt.Fprintf(sb, " (aka: %s)", aka)
	}
	sb.WriteByte('\n')
}
