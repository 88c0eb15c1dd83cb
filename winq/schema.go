package winq

// Schema names an attached database.
type Schema struct {
	node
	name string
}

// NewSchema creates a schema fragment.
func NewSchema(name string) *Schema {
	return &Schema{node: node{kind: KindSchema}, name: name}
}

// SchemaMain is the main database.
func SchemaMain() *Schema {
	return NewSchema("main")
}

// SchemaTemp is the temporary database.
func SchemaTemp() *Schema {
	return NewSchema("temp")
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Description implements Identifier.
func (s *Schema) Description() string {
	return s.name
}
