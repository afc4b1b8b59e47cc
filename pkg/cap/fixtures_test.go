package cap

import (
	"bytes"
	"testing"

	"github.com/gregLibert/globalplatform/pkg/tlv"
	"github.com/klauspost/compress/zip"
)

const walletPrefix = "com/example/wallet/javacard/"

var (
	walletPackageAID = tlv.Hex("A0000001510000")
	walletAppletAID  = tlv.Hex("A000000151000001")
)

const walletManifest = "Manifest-Version: 1.0\r\n" +
	"Created-By: 1.8.0_292 (Oracle Corporation)\r\n" +
	"\r\n" +
	"Name: com/example/wallet/javacard/\r\n" +
	"Java-Card-CAP-Creation-Time: Tue Jan 04 10:00:00 CET 2022\r\n" +
	"Java-Card-Converter-Version: 3.0.5\r\n" +
	"Java-Card-Converter-Provider: Oracle Corporation\r\n" +
	"Java-Card-CAP-File-Version: 2.1\r\n" +
	"Java-Card-Package-Version: 1.0\r\n" +
	"Java-Card-Package-Name: com.example.wallet\r\n" +
	"Java-Card-Package-AID: 0xa0:0x0:0x0:0x1:0x51:0x0:0x0\r\n" +
	"Java-Card-Applet-1-Name: Wallet\r\n" +
	"Java-Card-Applet-1-AID: 0xa0:0x0:0x0:0x1:0x51:0x0:0x0:0x1\r\n" +
	"Java-Card-Imported-Package-1-AID: 0xa0:0x0:0x0:0x0:0x62:0x0:0x1\r\n" +
	"Java-Card-Imported-Package-1-Version: 1.0\r\n" +
	"\r\n"

// walletComponents is a small applet package. Only Header and Applet are
// parsed; the other components are opaque.
func walletComponents() map[Component][]byte {
	return map[Component][]byte{
		ComponentHeader: tlv.Hex(
			"01 0011",  // tag, size
			"DECAFFED", // magic
			"01 02",    // CAP 2.1
			"04",       // ACC_APPLET
			"00 01",    // package 1.0
			"07 A0000001510000",
		),
		ComponentDirectory: tlv.Hex("02 0004 00140006"),
		ComponentImport:    tlv.Hex("04 000B 01 00 01 07 A0000000620001"),
		ComponentApplet: tlv.Hex(
			"03 000C", // tag, size
			"01",      // count
			"08 A000000151000001 0012",
		),
		ComponentClass:        tlv.Hex("06 0003 000102"),
		ComponentMethod:       tlv.Hex("07 0006 00 01 02 03 04 05"),
		ComponentStaticField:  tlv.Hex("08 0002 0000"),
		ComponentConstantPool: tlv.Hex("05 0003 01 02 03"),
		ComponentRefLocation:  tlv.Hex("09 0002 0000"),
		ComponentDescriptor:   tlv.Hex("0B 0004 01020304"),
		ComponentDebug:        tlv.Hex("0C 0003 AABBCC"),
	}
}

// walletEntries returns the archive entries of the wallet package.
func walletEntries() Entries {
	entries := Entries{ManifestPath: []byte(walletManifest)}
	for comp, data := range walletComponents() {
		entries[walletPrefix+comp.FileName()] = data
	}
	return entries
}

// concat joins the given components in load order.
func concat(components map[Component][]byte, includeDebug bool) []byte {
	var out []byte
	for _, comp := range Components() {
		if !includeDebug && comp.IsDebug() {
			continue
		}
		out = append(out, components[comp]...)
	}
	return out
}

// zipEntries builds an in-memory ZIP holding entries.
func zipEntries(t *testing.T, entries Entries) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %q: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("zip write %q: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func mustNew(t *testing.T, entries Entries, packageName string) *CapFile {
	t.Helper()
	c, err := New(entries, packageName)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}
