package cap

import (
	"fmt"
	"strings"
)

// Describe generates a human-readable report: manifest attributes, decoded
// Header, components and load file figures. The figures exclude the
// Descriptor and Debug components.
func (c *CapFile) Describe() string {
	return c.DescribeWith(false)
}

// DescribeWith is Describe with the load file figures computed over the
// Descriptor and Debug components too when includeDebug is set.
func (c *CapFile) DescribeWith(includeDebug bool) string {
	var sb strings.Builder
	sb.WriteString("=== CAP FILE ===")

	if info, err := c.manifest.Info(); err == nil {
		for _, line := range strings.Split(info.String(), "\n") {
			sb.WriteString("\n    ")
			sb.WriteString(line)
		}
	} else {
		fmt.Fprintf(&sb, "\n    Manifest: %v", err)
	}

	fmt.Fprintf(&sb, "\n    - Package: %s", c.packageName)
	c.header.describe(&sb)
	for _, a := range c.applets {
		fmt.Fprintf(&sb, "\n    - Applet.AID: %s", a)
	}

	for _, comp := range Components() {
		if data := c.components[comp]; data != nil {
			fmt.Fprintf(&sb, "\n    - Component.%s: %d bytes", comp, len(data))
		}
	}
	for _, a := range []struct {
		name   string
		blocks [][]byte
	}{
		{"DAP blocks", c.dapBlocks},
		{"Load tokens", c.loadTokens},
		{"Install tokens", c.installTokens},
	} {
		if len(a.blocks) > 0 {
			fmt.Fprintf(&sb, "\n    - %s: %d", a.name, len(a.blocks))
		}
	}

	if includeDebug {
		sb.WriteString("\n    - Load file: Descriptor and Debug included")
	}
	fmt.Fprintf(&sb, "\n    - Code length: %d bytes", c.CodeLength(includeDebug))
	fmt.Fprintf(&sb, "\n    - Load file data hash: %X", c.LoadFileDataHash(includeDebug))
	return sb.String()
}
