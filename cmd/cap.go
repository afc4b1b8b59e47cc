package cmd

import (
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/cap"
	"github.com/spf13/cobra"
)

var (
	capPackage   string
	capDebug     bool
	capSeparate  bool
	capBlockSize int
)

var capCmd = &cobra.Command{
	Use:   "cap",
	Short: "Inspect a CAP file",
}

var capInfoCmd = &cobra.Command{
	Use:   "info <file.cap>",
	Short: "Show the manifest, package and components of a CAP file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapInfo,
}

var capHashCmd = &cobra.Command{
	Use:   "hash <file.cap>",
	Short: "Print the SHA-1 Load File Data Block Hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapHash,
}

var capBlocksCmd = &cobra.Command{
	Use:   "blocks <file.cap>",
	Short: "Print the LOAD command payloads",
	Long:  "Prints the Load File Data Block (C4 header and components) split in LOAD payloads, one hex block per line.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapBlocks,
}

func init() {
	capCmd.PersistentFlags().StringVarP(&capPackage, "package", "p", "", "Java package to load (default: the package holding Header.cap)")
	capCmd.PersistentFlags().BoolVar(&capDebug, "debug", false, "Include the Descriptor and Debug components")
	capBlocksCmd.Flags().BoolVar(&capSeparate, "separate", false, "Split each component on its own")
	capBlocksCmd.Flags().IntVar(&capBlockSize, "block-size", cap.DefaultBlockSize, "Maximum LOAD payload size")

	capCmd.AddCommand(capInfoCmd, capHashCmd, capBlocksCmd)
	rootCmd.AddCommand(capCmd)
}

type capSummary struct {
	PackageName      string         `json:"packageName"`
	PackageAID       cap.AID        `json:"packageAid"`
	AppletAIDs       []cap.AID      `json:"appletAids"`
	Header           cap.Header     `json:"header"`
	Manifest         *cap.Info      `json:"manifest,omitempty"`
	Components       map[string]int `json:"components"`
	CodeLength       int            `json:"codeLength"`
	LoadFileDataHash string         `json:"loadFileDataHash"`
	DAPBlocks        int            `json:"dapBlocks"`
	LoadTokens       int            `json:"loadTokens"`
	InstallTokens    int            `json:"installTokens"`
}

func runCapInfo(cmd *cobra.Command, args []string) error {
	c, err := cap.Open(args[0], capPackage)
	if err != nil {
		return err
	}

	if !jsonOutput {
		printReport(cmd.OutOrStdout(), c.DescribeWith(capDebug))
		return nil
	}

	s := capSummary{
		PackageName:      c.PackageName(),
		PackageAID:       c.PackageAID(),
		AppletAIDs:       c.AppletAIDs(),
		Header:           c.Header(),
		Components:       map[string]int{},
		CodeLength:       c.CodeLength(capDebug),
		LoadFileDataHash: hexString(c.LoadFileDataHash(capDebug)),
		DAPBlocks:        len(c.DAPBlocks()),
		LoadTokens:       len(c.LoadTokens()),
		InstallTokens:    len(c.InstallTokens()),
	}
	if info, err := c.Manifest().Info(); err == nil {
		s.Manifest = info
	}
	for _, comp := range cap.Components() {
		if c.HasComponent(comp) {
			s.Components[comp.String()] = len(c.Component(comp))
		}
	}
	return printJSON(cmd.OutOrStdout(), s)
}

func runCapHash(cmd *cobra.Command, args []string) error {
	c, err := cap.Open(args[0], capPackage)
	if err != nil {
		return err
	}

	hash := hexString(c.LoadFileDataHash(capDebug))
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"codeLength":       c.CodeLength(capDebug),
			"loadFileDataHash": hash,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

type loadStepOutput struct {
	Component string   `json:"component"`
	Blocks    []string `json:"blocks"`
}

func runCapBlocks(cmd *cobra.Command, args []string) error {
	c, err := cap.Open(args[0], capPackage)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !capSeparate {
		blocks, err := c.LoadBlocks(capDebug, false, capBlockSize)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out, hexStrings(blocks))
		}
		for _, b := range blocks {
			fmt.Fprintln(out, hexString(b))
		}
		return nil
	}

	steps, err := c.LoadSteps(capDebug, capBlockSize)
	if err != nil {
		return err
	}
	if jsonOutput {
		res := make([]loadStepOutput, 0, len(steps))
		for _, s := range steps {
			res = append(res, loadStepOutput{Component: s.Component.String(), Blocks: hexStrings(s.Blocks)})
		}
		return printJSON(out, res)
	}
	for _, s := range steps {
		headerColor.Fprintf(out, "# %s\n", s.Component)
		for _, b := range s.Blocks {
			fmt.Fprintln(out, hexString(b))
		}
	}
	return nil
}
