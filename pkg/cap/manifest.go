package cap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
)

// ManifestPath is the well-known location of the JAR manifest.
const ManifestPath = `META-INF/MANIFEST.MF`

// Manifest keys read by Info.
const (
	keyCreatedBy         = "Created-By"
	keyCAPFileVersion    = "Java-Card-CAP-File-Version"
	keyCAPCreationTime   = "Java-Card-CAP-Creation-Time"
	keyConverterVersion  = "Java-Card-Converter-Version"
	keyConverterProvider = "Java-Card-Converter-Provider"
	keyPackageName       = "Java-Card-Package-Name"
	keyPackageVersion    = "Java-Card-Package-Version"
	keyPackageAID        = "Java-Card-Package-AID"

	prefixApplet = "Java-Card-Applet-"
	prefixImport = "Java-Card-Imported-Package-"
)

// Manifest is a parsed JAR manifest: a main section and named sections.
// Keys are case-insensitive.
type Manifest struct {
	main     textproto.MIMEHeader
	sections map[string]textproto.MIMEHeader
	names    []string
}

// ParseManifest reads a JAR manifest.
//
// Continuation lines (starting with a single space) are joined to the
// previous line without a separator, as the JAR format wraps at 72 bytes.
// A section ends at an empty line or at a "Name:" line, since manifests in
// the wild do not always separate sections with a newline.
func ParseManifest(r io.Reader) (*Manifest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read manifest: %w", err)
	}

	m := &Manifest{sections: make(map[string]textproto.MIMEHeader)}
	for i, section := range splitSections(joinContinuations(raw)) {
		hdr, err := readSection(section)
		if err != nil {
			return nil, fmt.Errorf("manifest section %d: %w", i, err)
		}

		if i == 0 && hdr.Get("Name") == "" {
			m.main = hdr
			continue
		}
		name := hdr.Get("Name")
		if name == "" {
			return nil, fmt.Errorf("%w: section %d has no Name", ErrInvalidManifest, i)
		}
		if _, dup := m.sections[name]; !dup {
			m.names = append(m.names, name)
		}
		m.sections[name] = hdr
	}

	if m.main == nil {
		m.main = textproto.MIMEHeader{}
	}
	return m, nil
}

func joinContinuations(raw []byte) []byte {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.ReplaceAll(raw, []byte("\r"), []byte("\n"))
	return bytes.ReplaceAll(raw, []byte("\n "), nil)
}

func splitSections(text []byte) [][]byte {
	var sections [][]byte
	var cur []byte

	flush := func() {
		if len(cur) > 0 {
			sections = append(sections, cur)
			cur = nil
		}
	}

	for _, line := range bytes.Split(text, []byte("\n")) {
		switch {
		case len(bytes.TrimSpace(line)) == 0:
			flush()
			continue
		case len(line) >= 5 && strings.EqualFold(string(line[:5]), "Name:"):
			flush()
		}
		cur = append(cur, line...)
		cur = append(cur, '\r', '\n')
	}
	flush()
	return sections
}

func readSection(section []byte) (textproto.MIMEHeader, error) {
	section = append(section, '\r', '\n')
	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(section)))
	hdr, err := tp.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return nil, err
	}
	return hdr, nil
}

// Get returns a main section attribute.
func (m *Manifest) Get(key string) string {
	return m.main.Get(key)
}

// SectionNames returns the names of the named sections in file order.
func (m *Manifest) SectionNames() []string {
	return append([]string(nil), m.names...)
}

// SectionValue returns an attribute of a named section.
func (m *Manifest) SectionValue(section, key string) string {
	return m.sections[section].Get(key)
}

// Applet is a manifest applet entry.
type Applet struct {
	Name string `json:"name"`
	AID  AID    `json:"aid"`
}

// Import is a manifest imported package entry.
type Import struct {
	AID     AID    `json:"aid"`
	Version string `json:"version"`
}

// Info is what a converter recorded about the package in the manifest.
type Info struct {
	CreatedBy         string   `json:"createdBy"`
	CAPVersion        string   `json:"capVersion"`
	CreationTime      string   `json:"creationTime"`
	ConverterVersion  string   `json:"converterVersion"`
	ConverterProvider string   `json:"converterProvider"`
	PackageName       string   `json:"packageName"`
	PackageVersion    string   `json:"packageVersion"`
	PackageAID        AID      `json:"packageAid"`
	Applets           []Applet `json:"applets,omitempty"`
	Imports           []Import `json:"imports,omitempty"`
}

// Info extracts the Java Card attributes. The manifest must hold exactly
// one named section.
func (m *Manifest) Info() (*Info, error) {
	if len(m.names) != 1 {
		return nil, fmt.Errorf("%w: %d named sections, want 1", ErrInvalidManifest, len(m.names))
	}
	sec := m.sections[m.names[0]]

	info := &Info{
		CreatedBy:         m.main.Get(keyCreatedBy),
		CAPVersion:        sec.Get(keyCAPFileVersion),
		CreationTime:      sec.Get(keyCAPCreationTime),
		ConverterVersion:  sec.Get(keyConverterVersion),
		ConverterProvider: sec.Get(keyConverterProvider),
		PackageName:       sec.Get(keyPackageName),
		PackageVersion:    sec.Get(keyPackageVersion),
	}

	var err error
	if info.PackageAID, err = ParseAID(sec.Get(keyPackageAID)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, keyPackageAID, err)
	}

	applets, imports := countIndexed(sec)
	for i := 1; i <= applets; i++ {
		key := prefixApplet + strconv.Itoa(i)
		aid, err := ParseAID(sec.Get(key + "-AID"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s-AID: %w", ErrInvalidManifest, key, err)
		}
		info.Applets = append(info.Applets, Applet{Name: sec.Get(key + "-Name"), AID: aid})
	}
	for i := 1; i <= imports; i++ {
		key := prefixImport + strconv.Itoa(i)
		aid, err := ParseAID(sec.Get(key + "-AID"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s-AID: %w", ErrInvalidManifest, key, err)
		}
		info.Imports = append(info.Imports, Import{AID: aid, Version: sec.Get(key + "-Version")})
	}
	return info, nil
}

// countIndexed counts Java-Card-Applet-i-Name and
// Java-Card-Imported-Package-i-AID keys.
func countIndexed(sec textproto.MIMEHeader) (applets, imports int) {
	for k := range sec {
		k = strings.ToLower(k)
		switch {
		case strings.HasPrefix(k, strings.ToLower(prefixApplet)) && strings.HasSuffix(k, "-name"):
			applets++
		case strings.HasPrefix(k, strings.ToLower(prefixImport)) && strings.HasSuffix(k, "-aid"):
			imports++
		}
	}
	return applets, imports
}

// String renders the report the way converters describe a CAP file.
func (i *Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CAP file (v%s) generated on %s\n", i.CAPVersion, i.CreationTime)
	fmt.Fprintf(&sb, "By %s converter %s with JDK %s\n", i.ConverterProvider, i.ConverterVersion, i.CreatedBy)
	fmt.Fprintf(&sb, "Package: %s v%s with AID %s", i.PackageName, i.PackageVersion, i.PackageAID)
	for _, a := range i.Applets {
		fmt.Fprintf(&sb, "\nApplet: %s with AID %s", a.Name, a.AID)
	}
	for _, imp := range i.Imports {
		fmt.Fprintf(&sb, "\nImport: %s v%s", imp.AID, imp.Version)
	}
	return sb.String()
}
