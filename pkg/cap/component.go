package cap

import "fmt"

// Component identifies one of the binary components of a CAP file.
// The declaration order is the order components are loaded and hashed in.
type Component int

const (
	ComponentHeader Component = iota
	ComponentDirectory
	ComponentImport
	ComponentApplet
	ComponentClass
	ComponentMethod
	ComponentStaticField
	ComponentExport
	ComponentConstantPool
	ComponentRefLocation
	ComponentDescriptor
	ComponentDebug

	componentCount
)

var componentNames = [componentCount]string{
	"Header",
	"Directory",
	"Import",
	"Applet",
	"Class",
	"Method",
	"StaticField",
	"Export",
	"ConstantPool",
	"RefLocation",
	"Descriptor",
	"Debug",
}

// Components lists every component in load order.
func Components() []Component {
	out := make([]Component, componentCount)
	for i := range out {
		out[i] = Component(i)
	}
	return out
}

func (c Component) String() string {
	if c < 0 || c >= componentCount {
		return fmt.Sprintf("Component(%d)", int(c))
	}
	return componentNames[c]
}

// FileName returns the entry name of the component inside the package
// directory, e.g. "Header.cap".
func (c Component) FileName() string {
	return c.String() + ".cap"
}

// IsDebug reports whether the component is only loaded on request
// (Descriptor and Debug).
func (c Component) IsDebug() bool {
	return c == ComponentDescriptor || c == ComponentDebug
}

// loaded reports whether the component takes part in a load with the
// given debug setting.
func (c Component) loaded(includeDebug bool) bool {
	return includeDebug || !c.IsDebug()
}
