package cmd

import (
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/gp"
	"github.com/gregLibert/globalplatform/pkg/tlv"
	"github.com/spf13/cobra"
)

var (
	fromResponse bool
	structured   bool
)

var cplcCmd = &cobra.Command{
	Use:   "cplc [hex|file|-]",
	Short: "Decode a GET DATA '9F7F' Card Production Life Cycle record",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCPLC,
}

var keysCmd = &cobra.Command{
	Use:   "keys [hex|file|-]",
	Short: "Decode a GET DATA '00E0' Key Information Template",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeys,
}

var cardDataCmd = &cobra.Command{
	Use:   "carddata [hex|file|-]",
	Short: "Decode a GET DATA '0066' Card Recognition Data",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCardData,
}

var tlvCmd = &cobra.Command{
	Use:   "tlv [hex|file|-]",
	Short: "Dump any BER-TLV buffer as a tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTLV,
}

func init() {
	for _, c := range []*cobra.Command{cplcCmd, keysCmd, cardDataCmd} {
		c.Flags().BoolVarP(&fromResponse, "response", "r", false, "Input is a full response APDU ending with SW1-SW2")
	}
	cardDataCmd.Flags().BoolVar(&structured, "structured", false, "Decode by tag instead of walking units; fails on the first bad OID")

	rootCmd.AddCommand(cplcCmd, keysCmd, cardDataCmd, tlvCmd)
}

type cplcField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func runCPLC(cmd *cobra.Command, args []string) error {
	data, err := readDataObject(args, fromResponse)
	if err != nil {
		return err
	}
	c, err := gp.ParseCPLC(data)
	if err != nil {
		return err
	}

	if !jsonOutput {
		printReport(cmd.OutOrStdout(), c.Describe())
		return nil
	}
	if c == nil {
		return printJSON(cmd.OutOrStdout(), nil)
	}

	fields := make([]cplcField, 0, 18)
	for _, f := range c.Fields() {
		fields = append(fields, cplcField{Name: f[0], Value: f[1]})
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"fields":          fields,
		"diversification": c.SuggestDiversification().String(),
	})
}

func runKeys(cmd *cobra.Command, args []string) error {
	data, err := readDataObject(args, fromResponse)
	if err != nil {
		return err
	}
	keys, err := gp.ParseKeyTemplate(data)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), keys)
	}
	printReport(cmd.OutOrStdout(), keys.Describe())
	return nil
}

func runCardData(cmd *cobra.Command, args []string) error {
	data, err := readDataObject(args, fromResponse)
	if err != nil {
		return err
	}

	if structured {
		if data == nil {
			return fmt.Errorf("no card data")
		}
		r, err := gp.ParseCardRecognitionData(data)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"globalPlatform": r.IsGlobalPlatform(),
				"version":        r.GPVersion(),
				"scp":            r.SCPVersions(),
			})
		}
		printReport(cmd.OutOrStdout(), r.Describe())
		return nil
	}

	facts, err := gp.ParseCardData(data)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), facts)
	}
	printReport(cmd.OutOrStdout(), facts.Describe())
	return nil
}

func runTLV(cmd *cobra.Command, args []string) error {
	data, err := readDataObject(args, false)
	if err != nil {
		return err
	}
	dump, err := tlv.Dump(data)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"dump": dump})
	}
	printReport(cmd.OutOrStdout(), dump)
	return nil
}
