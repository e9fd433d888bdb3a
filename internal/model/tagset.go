package model

// NewSlot marks a position in a remap source list that has no old bit.
const NewSlot = -1

// TagSet is a growable bit-vector with one bit per checkbox, addressed by
// global checkbox index. Bit i lives in bits[i/8] at bit i%8; bits at or above
// Len() are always zero.
type TagSet struct {
	bits []byte
	n    int
}

// ByteWidth returns the number of bytes needed to hold n bits.
func ByteWidth(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 7) / 8
}

func NewTagSet(n int) TagSet {
	if n < 0 {
		n = 0
	}
	return TagSet{bits: make([]byte, ByteWidth(n)), n: n}
}

// TagSetFromRecord decodes a big-endian record (most significant byte first,
// record bit 0 = index 0) holding n bits. Padding bits are masked off.
func TagSetFromRecord(rec []byte, n int) TagSet {
	ts := NewTagSet(n)
	w := len(ts.bits)
	for i := 0; i < w && i < len(rec); i++ {
		ts.bits[i] = rec[len(rec)-1-i]
	}
	ts.maskTail()
	return ts
}

func (t TagSet) Len() int { return t.n }

func (t TagSet) Get(i int) bool {
	if i < 0 || i >= t.n {
		return false
	}
	return t.bits[i/8]&(1<<uint(i%8)) != 0
}

func (t *TagSet) Set(i int, v bool) {
	if i < 0 || i >= t.n {
		return
	}
	if v {
		t.bits[i/8] |= 1 << uint(i%8)
	} else {
		t.bits[i/8] &^= 1 << uint(i%8)
	}
}

func (t *TagSet) Toggle(i int) {
	t.Set(i, !t.Get(i))
}

// Record encodes the set as a fixed-width big-endian record of ByteWidth(Len())
// bytes.
func (t TagSet) Record() []byte {
	w := len(t.bits)
	out := make([]byte, w)
	for i := 0; i < w; i++ {
		out[w-1-i] = t.bits[i]
	}
	return out
}

// Remap builds a new set where bit j is taken from old bit sources[j], or is
// zero when sources[j] is NewSlot. Old bits not listed are dropped.
func (t TagSet) Remap(sources []int) TagSet {
	out := NewTagSet(len(sources))
	for j, src := range sources {
		if src == NewSlot {
			continue
		}
		if t.Get(src) {
			out.Set(j, true)
		}
	}
	return out
}

// Indices lists the set bits in ascending order.
func (t TagSet) Indices() []int {
	var out []int
	for i := 0; i < t.n; i++ {
		if t.Get(i) {
			out = append(out, i)
		}
	}
	return out
}

func (t TagSet) Clone() TagSet {
	b := make([]byte, len(t.bits))
	copy(b, t.bits)
	return TagSet{bits: b, n: t.n}
}

func (t TagSet) Equal(o TagSet) bool {
	if t.n != o.n || len(t.bits) != len(o.bits) {
		return false
	}
	for i := range t.bits {
		if t.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

func (t *TagSet) maskTail() {
	if r := t.n % 8; r != 0 && len(t.bits) > 0 {
		t.bits[len(t.bits)-1] &= byte(1<<uint(r)) - 1
	}
}
