package optgrammar

// DescriptorKind enumerates the closed set of descriptors.
type DescriptorKind int

const (
	DescString DescriptorKind = iota + 1
	DescInteger
	DescBoolean
	DescBlob
	DescTimestamp
	DescRequired
	DescRename
	DescPattern
	DescList
	DescMemberedList
	DescStructure
)

var descriptorNames = [...]string{
	DescString:       "String",
	DescInteger:      "Integer",
	DescBoolean:      "Boolean",
	DescBlob:         "Blob",
	DescTimestamp:    "Timestamp",
	DescRequired:     "Required",
	DescRename:       "Rename",
	DescPattern:      "Pattern",
	DescList:         "List",
	DescMemberedList: "MemberedList",
	DescStructure:    "Structure",
}

func (k DescriptorKind) String() string {
	if k <= 0 || int(k) >= len(descriptorNames) {
		return "Unknown"
	}
	return descriptorNames[k]
}

// Descriptor is one unit of leaf type, modifier or composite behavior
// applied to a Node at build time. Descriptors are values; applying one
// never changes it.
type Descriptor struct {
	kind    DescriptorKind
	text    string       // Rename target, Pattern expression
	member  []Descriptor // List, MemberedList
	members []Option     // Structure
}

// Kind reports which descriptor d is.
func (d Descriptor) Kind() DescriptorKind { return d.kind }

// Option declares one named option (or structure member) and the
// descriptors applied to it, in order.
type Option struct {
	Name        string
	Descriptors []Descriptor
}

// Named builds an Option.
func Named(name string, descs ...Descriptor) Option {
	return Option{Name: name, Descriptors: descs}
}

// String accepts string values (and []byte).
func String() Descriptor { return Descriptor{kind: DescString} }

// Integer accepts integer and floating point numbers, including json.Number.
func Integer() Descriptor { return Descriptor{kind: DescInteger} }

// Boolean accepts true and false only.
func Boolean() Descriptor { return Descriptor{kind: DescBoolean} }

// Blob accepts string values and encodes them with the schema's BlobCodec.
func Blob() Descriptor { return Descriptor{kind: DescBlob} }

// Timestamp accepts any value. Values are not checked for a time format.
func Timestamp() Descriptor { return Descriptor{kind: DescTimestamp} }

// Required makes the option mandatory in its enclosing mapping.
func Required() Descriptor { return Descriptor{kind: DescRequired} }

// Rename changes the binding name callers use; the wire name is kept.
// The new name goes through inflection.BindingName.
func Rename(name string) Descriptor { return Descriptor{kind: DescRename, text: name} }

// Pattern is accepted for catalog compatibility and not enforced.
func Pattern(expr string) Descriptor { return Descriptor{kind: DescPattern, text: expr} }

// List declares a sequence whose members are described by member.
// Members are keyed "prefix.N".
func List(member ...Descriptor) Descriptor {
	return Descriptor{kind: DescList, member: member}
}

// MemberedList is List with members keyed "prefix.member.N".
func MemberedList(member ...Descriptor) Descriptor {
	return Descriptor{kind: DescMemberedList, member: member}
}

// Structure declares a mapping with the given members.
func Structure(members ...Option) Descriptor {
	return Descriptor{kind: DescStructure, members: members}
}
