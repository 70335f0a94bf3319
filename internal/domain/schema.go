package domain

// FieldKind classifies a schema attribute for normalization purposes.
// Scalar fields pass through untouched; the other kinds carry nested
// structure that the code generator has to walk.
type FieldKind int

const (
	FieldScalar FieldKind = iota
	FieldRelation
	FieldMedia
	FieldComponent
	FieldDynamicZone
)

// FieldSpec describes a single attribute of a content type or component.
type FieldSpec struct {
	Kind FieldKind
	// Many reports whether the attribute holds a list of values
	// (repeatable component, multi media, to-many relation).
	Many bool
	// Component is the component UID for FieldComponent attributes.
	Component string
	// Components lists the allowed component UIDs for FieldDynamicZone.
	Components []string
	// Target is the related content-type UID for FieldRelation attributes.
	Target string
}

// Schema is the attribute map of one content type or component.
type Schema struct {
	UID        string
	Attributes map[string]FieldSpec
}

// Field returns the spec for an attribute, with ok reporting whether
// the attribute is declared at all. Undeclared attributes are treated
// as scalars by callers.
func (s Schema) Field(name string) (FieldSpec, bool) {
	f, ok := s.Attributes[name]
	return f, ok
}

// SchemaRegistry resolves content-type and component schemas by UID.
type SchemaRegistry interface {
	ContentType(uid string) (Schema, bool)
	Component(uid string) (Schema, bool)
}

// StaticRegistry is a SchemaRegistry backed by fixed maps. The catalog
// schema does not change at runtime, so this is all the service needs.
type StaticRegistry struct {
	contentTypes map[string]Schema
	components   map[string]Schema
}

func NewStaticRegistry(contentTypes, components []Schema) *StaticRegistry {
	r := &StaticRegistry{
		contentTypes: make(map[string]Schema, len(contentTypes)),
		components:   make(map[string]Schema, len(components)),
	}
	for _, s := range contentTypes {
		r.contentTypes[s.UID] = s
	}
	for _, s := range components {
		r.components[s.UID] = s
	}
	return r
}

func (r *StaticRegistry) ContentType(uid string) (Schema, bool) {
	s, ok := r.contentTypes[uid]
	return s, ok
}

func (r *StaticRegistry) Component(uid string) (Schema, bool) {
	s, ok := r.components[uid]
	return s, ok
}
