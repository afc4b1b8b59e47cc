// Package cap reads Java Card CAP files and assembles the load file a
// GlobalPlatform card expects from them.
//
// A CAP file is a ZIP archive. Its components live under
// <package path>/javacard/<Component>.cap, next to a JAR manifest and,
// optionally, signing artifacts (DAP blocks, load and install tokens)
// under meta-inf/.
package cap

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	javacardDir   = "/javacard/"
	headerSuffix  = "Header.cap"
	artifactDir   = "meta-inf/"
	artifactDAP   = "dap"
	artifactLoad  = "lt"
	artifactInstl = "it"
)

// Entries maps archive entry names to their content.
type Entries map[string][]byte

// CapFile is a decoded CAP file. It is immutable once returned by New and
// safe for concurrent use.
type CapFile struct {
	packageName string
	header      Header
	applets     []AID
	components  [componentCount][]byte

	dapBlocks     [][]byte
	loadTokens    [][]byte
	installTokens [][]byte

	manifest *Manifest
}

// New builds a CapFile from the entries of a CAP archive.
//
// packageName is the dotted Java package ("com.example.wallet"). When
// empty, the package is the directory holding the first Header.cap entry
// in name order.
func New(entries Entries, packageName string) (*CapFile, error) {
	prefix, ok := packagePrefix(entries, packageName)
	if !ok {
		return nil, ErrPackageNameUnresolved
	}

	mf, ok := entries[ManifestPath]
	if !ok {
		return nil, ErrMissingManifest
	}
	manifest, err := ParseManifest(bytes.NewReader(mf))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedContainer, err)
	}

	c := &CapFile{manifest: manifest}

	i := strings.LastIndex(prefix, javacardDir)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q is not a javacard directory", ErrPackageNameUnresolved, prefix)
	}
	c.packageName = strings.ReplaceAll(prefix[:i], "/", ".")

	logger := log.With().
		Str("component", "cap").
		Str("package", c.packageName).
		Logger()

	for _, comp := range Components() {
		if data, ok := entries[prefix+comp.FileName()]; ok {
			c.components[comp] = bytes.Clone(data)
			logger.Debug().Str("name", comp.String()).Int("size", len(data)).Msg("component")
		}
	}

	artifactPrefix := artifactDir + strings.ReplaceAll(prefix, "/", "-")
	c.dapBlocks = collectArtifacts(entries, artifactPrefix+artifactDAP, logger)
	c.loadTokens = collectArtifacts(entries, artifactPrefix+artifactLoad, logger)
	c.installTokens = collectArtifacts(entries, artifactPrefix+artifactInstl, logger)

	hdr := c.components[ComponentHeader]
	if hdr == nil {
		return nil, ErrMissingHeader
	}
	if c.header, err = parseHeader(hdr); err != nil {
		return nil, err
	}
	if c.header.Magic != CAPMagic {
		logger.Warn().Uint32("magic", c.header.Magic).Msg("unexpected Header magic")
	}

	c.applets = []AID{}
	if applet := c.components[ComponentApplet]; applet != nil {
		if c.applets, err = parseApplets(applet); err != nil {
			return nil, err
		}
	}
	logger.Debug().
		Stringer("aid", c.header.PackageAID).
		Int("applets", len(c.applets)).
		Msg("package")

	return c, nil
}

// packagePrefix returns the entry name prefix of the package components,
// e.g. "com/example/wallet/javacard/".
func packagePrefix(entries Entries, packageName string) (string, bool) {
	if packageName != "" {
		return strings.ReplaceAll(packageName, ".", "/") + javacardDir, true
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.HasSuffix(name, headerSuffix) {
			return strings.TrimSuffix(name, headerSuffix), true
		}
	}
	return "", false
}

// collectArtifacts reads base+"1", base+"2", ... up to the first missing index.
func collectArtifacts(entries Entries, base string, logger zerolog.Logger) [][]byte {
	var out [][]byte
	for n := 1; ; n++ {
		data, ok := entries[base+strconv.Itoa(n)]
		if !ok {
			break
		}
		out = append(out, bytes.Clone(data))
	}
	if len(out) > 0 {
		logger.Debug().Str("artifact", base).Int("count", len(out)).Msg("signing artifacts")
	}
	return out
}

// PackageName returns the dotted package name.
func (c *CapFile) PackageName() string {
	return c.packageName
}

// PackageAID returns the AID from the Header component.
func (c *CapFile) PackageAID() AID {
	return c.header.PackageAID
}

// Header returns the decoded Header component.
func (c *CapFile) Header() Header {
	return c.header
}

// AppletAIDs returns the applets declared by the Applet component, in
// component order. It is empty for library packages.
func (c *CapFile) AppletAIDs() []AID {
	return append([]AID{}, c.applets...)
}

// Component returns a copy of a component, or nil if the package lacks it.
func (c *CapFile) Component(comp Component) []byte {
	if comp < 0 || comp >= componentCount {
		return nil
	}
	return bytes.Clone(c.components[comp])
}

// HasComponent reports whether the package carries comp.
func (c *CapFile) HasComponent(comp Component) bool {
	return comp >= 0 && comp < componentCount && c.components[comp] != nil
}

// DAPBlocks returns the DAP signatures found in meta-inf/, in index order.
func (c *CapFile) DAPBlocks() [][]byte { return cloneAll(c.dapBlocks) }

// LoadTokens returns the load tokens found in meta-inf/, in index order.
func (c *CapFile) LoadTokens() [][]byte { return cloneAll(c.loadTokens) }

// InstallTokens returns the install tokens found in meta-inf/, in index order.
func (c *CapFile) InstallTokens() [][]byte { return cloneAll(c.installTokens) }

// Manifest returns the parsed JAR manifest.
func (c *CapFile) Manifest() *Manifest {
	return c.manifest
}

func cloneAll(in [][]byte) [][]byte {
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = bytes.Clone(b)
	}
	return out
}
