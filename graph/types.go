// ABOUTME: Core data types for the heap object graph
// ABOUTME: Defines Object, ObjID, and the Ruby value-type tags

package graph

// ObjID is a unique identifier for a heap object. It is the object's
// address in the dumped process, except for named GC roots, whose ids
// are synthesized by the decoder from a reserved range.
type ObjID uint64

// SuperRootID is the reserved id of the synthetic node that points at
// every GC root. It is never a valid heap address and is never returned
// by any query.
const SuperRootID ObjID = 0

// TypeTag is the coarse Ruby value-type classification of a heap object.
type TypeTag uint8

const (
	TypeNone TypeTag = iota
	TypeRoot
	TypeObject
	TypeClass
	TypeModule
	TypeFloat
	TypeString
	TypeRegexp
	TypeArray
	TypeHash
	TypeStruct
	TypeBignum
	TypeFile
	TypeData
	TypeMatch
	TypeComplex
	TypeRational
	TypeNil
	TypeTrue
	TypeFalse
	TypeSymbol
	TypeFixnum
	TypeUndef
	TypeImemo
	TypeNode
	TypeIclass
	TypeZombie
)

var typeNames = map[TypeTag]string{
	TypeNone:     "NONE",
	TypeRoot:     "ROOT",
	TypeObject:   "OBJECT",
	TypeClass:    "CLASS",
	TypeModule:   "MODULE",
	TypeFloat:    "FLOAT",
	TypeString:   "STRING",
	TypeRegexp:   "REGEXP",
	TypeArray:    "ARRAY",
	TypeHash:     "HASH",
	TypeStruct:   "STRUCT",
	TypeBignum:   "BIGNUM",
	TypeFile:     "FILE",
	TypeData:     "DATA",
	TypeMatch:    "MATCH",
	TypeComplex:  "COMPLEX",
	TypeRational: "RATIONAL",
	TypeNil:      "NIL",
	TypeTrue:     "TRUE",
	TypeFalse:    "FALSE",
	TypeSymbol:   "SYMBOL",
	TypeFixnum:   "FIXNUM",
	TypeUndef:    "UNDEF",
	TypeImemo:    "IMEMO",
	TypeNode:     "NODE",
	TypeIclass:   "ICLASS",
	TypeZombie:   "ZOMBIE",
}

var typeTags map[string]TypeTag

func init() {
	typeTags = make(map[string]TypeTag, len(typeNames))
	for tag, name := range typeNames {
		typeTags[name] = tag
	}
}

// String returns the dump-format name of the tag.
func (t TypeTag) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseTypeTag maps a dump-format type string to its tag.
// Unrecognized strings map to TypeNone.
func ParseTypeTag(s string) TypeTag {
	return typeTags[s]
}

// Object represents a single heap object.
type Object struct {
	ID     ObjID   // Unique identifier, never SuperRootID for real objects
	Type   TypeTag // Coarse value-type classification
	Size   uint64  // Size in bytes
	IsRoot bool    // Set by the source record, not derived
	Refs   []ObjID // Referenced ids in declaration order, duplicates kept

	// Presentation metadata, unused by graph algorithms.
	Class string // Class name, if resolved by the decoder
	Name  string // Root name, class/module name, or value preview
}
