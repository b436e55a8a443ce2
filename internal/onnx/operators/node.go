package operators

// Attribute types (AttributeProto.AttributeType).
const (
	AttrTypeFloat  = 1
	AttrTypeInt    = 2
	AttrTypeString = 3
)

// Node represents one operator instance: its type, attributes and the names
// of the values it reads and writes.
type Node struct {
	Name       string      // Node name (optional)
	OpType     string      // Operation type (e.g., "Dequantize")
	Inputs     []string    // Input tensor names
	Outputs    []string    // Output tensor names
	Attributes []Attribute // Operation attributes
	Domain     string      // Custom domain (empty for default)
}

// Attribute represents a node attribute.
type Attribute struct {
	Name string  // Attribute name
	Type int32   // Attribute type
	F    float32 // FLOAT value
	I    int64   // INT value
	S    []byte  // STRING value
}

// StringAttr builds a STRING attribute.
func StringAttr(name, value string) Attribute {
	return Attribute{Name: name, Type: AttrTypeString, S: []byte(value)}
}

// IntAttr builds an INT attribute.
func IntAttr(name string, value int64) Attribute {
	return Attribute{Name: name, Type: AttrTypeInt, I: value}
}

// HasAttr reports whether the node carries an attribute with the given name.
func HasAttr(node *Node, name string) bool {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return true
		}
	}
	return false
}

// GetAttrInt returns an integer attribute or default value.
func GetAttrInt(node *Node, name string, defaultVal int64) int64 {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return node.Attributes[i].I
		}
	}
	return defaultVal
}

// GetAttrString returns a string attribute or default value.
func GetAttrString(node *Node, name, defaultVal string) string {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return string(node.Attributes[i].S)
		}
	}
	return defaultVal
}
