package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nstehr/gambit/meta"
)

var tokensFlags struct {
	format string
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [NAME...]",
	Short: "List the available tokens",
	Long: `Print every token with its argument slots and result type.

Examples:
  gambit tokens
  gambit tokens Strike FilterList
  gambit tokens --format json`,
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVar(&tokensFlags.format, "format", "text", "output format: text, json")
}

type tokenInfo struct {
	Name   string     `json:"name"`
	Slots  []slotInfo `json:"slots,omitempty"`
	Result string     `json:"result"`
	Doc    string     `json:"doc,omitempty"`
}

type slotInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func runTokens(cmd *cobra.Command, args []string) error {
	reg := meta.Builtin()

	var infos []tokenInfo
	if len(args) == 0 {
		args = reg.Names()
	}
	for _, name := range args {
		m, derr := reg.Lookup(name)
		if derr != nil {
			return derr
		}
		info := tokenInfo{Name: m.Name, Result: m.Result.String(), Doc: m.Doc}
		if m.Literal {
			info.Slots = append(info.Slots, slotInfo{Name: "value", Type: "integer"})
		}
		for _, s := range m.Slots {
			info.Slots = append(info.Slots, slotInfo{Name: s.Name, Type: s.Type.String()})
		}
		infos = append(infos, info)
	}

	out := cmd.OutOrStdout()
	switch tokensFlags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "text":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, info := range infos {
			slots := make([]string, len(info.Slots))
			for i, s := range info.Slots {
				slots[i] = s.Name + ": " + s.Type
			}
			fmt.Fprintf(tw, "%s(%s)\t-> %s\t%s\n", info.Name, strings.Join(slots, ", "), info.Result, info.Doc)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", tokensFlags.format)
	}
}
