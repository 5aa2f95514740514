package ta

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
)

// KeyKind distinguishes the five abstract storage locations the analyzer's
// flow graph tracks taint for.
type KeyKind int

const (
	// KeyReg is a virtual register, scoped by its declared type (a register
	// slot is reused across types in the host compiler's numbering, so the
	// pair (Num, Ty) is the real identity).
	KeyReg KeyKind = iota
	// KeyRng is the single global "last random draw" node: all Rand reads
	// depend on it, all Srand/ReseedRng writes update it.
	KeyRng
	// KeyVar is a named global/local variable, scoped by its storage type.
	KeyVar
	// KeySlot is a spill slot (a register moved out of an active call
	// frame), scoped by its storage type.
	KeySlot
	// KeyFunc is a function's return-value summary node.
	KeyFunc
)

// Key identifies a node in the flow graph. Two Keys with equal fields name
// the same node; Key is comparable so it can be used directly as a map key.
type Key struct {
	Kind KeyKind
	Num  int64
	Name string
	Ty   string
}

// Reg builds a register Key, scoped by num and ty (e.g. "Str", "Int",
// "MapIntStr" — the type names are opaque to the analyzer, only equality
// matters).
func Reg(num int64, ty string) Key { return Key{Kind: KeyReg, Num: num, Ty: ty} }

// Rng is the sole random-number-generator node.
func Rng() Key { return Key{Kind: KeyRng} }

// Var builds a named-variable Key.
func Var(name, ty string) Key { return Key{Kind: KeyVar, Name: name, Ty: ty} }

// Slot builds a spill-slot Key.
func Slot(id int64, ty string) Key { return Key{Kind: KeySlot, Num: id, Ty: ty} }

// Func builds a function return-value summary Key.
func Func(id int64) Key { return Key{Kind: KeyFunc, Num: id} }

// fingerprintK0/fingerprintK1 are fixed, arbitrary SipHash keys. Fingerprint
// serves as the analyzer's node-intern key (Analyzer.getNode) and as
// Explain's sort key; both only need it to be stable within one process's
// lifetime, so the key is a process constant rather than a secret.
const (
	fingerprintK0 uint64 = 0x9ae16a3b2f90404f
	fingerprintK1 uint64 = 0xc2b2ae3d27d4eb4f
)

// Fingerprint returns a stable hash of k. The analyzer interns graph nodes
// on it, and Explain uses it to order its output deterministically without
// imposing an arbitrary field-by-field Less.
func (k Key) Fingerprint() uint64 {
	buf := make([]byte, 0, 1+8+len(k.Name)+len(k.Ty))
	buf = append(buf, byte(k.Kind))
	var numBuf [8]byte
	binary.LittleEndian.PutUint64(numBuf[:], uint64(k.Num))
	buf = append(buf, numBuf[:]...)
	buf = append(buf, k.Name...)
	buf = append(buf, 0)
	buf = append(buf, k.Ty...)
	return siphash.Hash(fingerprintK0, fingerprintK1, buf)
}

// String renders k for diagnostics and rejection messages, e.g. "var(cmd:Str)"
// or "reg(#3:Int)".
func (k Key) String() string {
	switch k.Kind {
	case KeyReg:
		return fmt.Sprintf("reg(#%d:%s)", k.Num, k.Ty)
	case KeyRng:
		return "rng"
	case KeyVar:
		return fmt.Sprintf("var(%s:%s)", k.Name, k.Ty)
	case KeySlot:
		return fmt.Sprintf("slot(#%d:%s)", k.Num, k.Ty)
	case KeyFunc:
		return fmt.Sprintf("func(#%d)", k.Num)
	default:
		return fmt.Sprintf("key(kind=%d)", k.Kind)
	}
}
