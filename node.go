package fbptree

import "encoding/binary"

// nodeHeaderSize is the common prefix shared by IndexNode and LeafNode:
// self/parent/left/right offsets plus a key count. Keeping the prefix
// identical in both layout and field order is what lets sibling relinking
// reason about "the node at this offset" without caring which kind it is.
const nodeHeaderSize = 8*4 + 4

type nodeHeader struct {
	SelfOffset   uint64
	ParentOffset uint64
	LeftOffset   uint64
	RightOffset  uint64
	Count        uint32
}

func (h *nodeHeader) encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], h.SelfOffset)
	binary.LittleEndian.PutUint64(buf[8:16], h.ParentOffset)
	binary.LittleEndian.PutUint64(buf[16:24], h.LeftOffset)
	binary.LittleEndian.PutUint64(buf[24:32], h.RightOffset)
	binary.LittleEndian.PutUint32(buf[32:36], h.Count)
}

func (h *nodeHeader) decode(buf []byte) {
	h.SelfOffset = binary.LittleEndian.Uint64(buf[0:8])
	h.ParentOffset = binary.LittleEndian.Uint64(buf[8:16])
	h.LeftOffset = binary.LittleEndian.Uint64(buf[16:24])
	h.RightOffset = binary.LittleEndian.Uint64(buf[24:32])
	h.Count = binary.LittleEndian.Uint32(buf[32:36])
}

// IndexNode is an interior node: Count separator keys and Count+1 child
// offsets. Keys and Children are always allocated to full capacity
// (Order and Order+1 respectively); only the first Count/Count+1 slots
// are meaningful. The on-disk record always occupies every slot.
type IndexNode struct {
	nodeHeader
	Keys     [][]byte
	Children []uint64
}

func (n *IndexNode) Offset() uint64     { return n.SelfOffset }
func (n *IndexNode) SetOffset(o uint64) { n.SelfOffset = o }

func (n *IndexNode) DiskSize(cfg *Config) int {
	return nodeHeaderSize + cfg.Order*cfg.KMax + (cfg.Order+1)*8
}

func (n *IndexNode) Encode(buf []byte, cfg *Config) {
	n.nodeHeader.encode(buf[0:nodeHeaderSize])
	off := nodeHeaderSize
	for i := 0; i < cfg.Order; i++ {
		if i < len(n.Keys) {
			copy(buf[off:off+cfg.KMax], n.Keys[i])
		}
		off += cfg.KMax
	}
	for i := 0; i < cfg.Order+1; i++ {
		var v uint64
		if i < len(n.Children) {
			v = n.Children[i]
		}
		binary.LittleEndian.PutUint64(buf[off:off+8], v)
		off += 8
	}
}

func (n *IndexNode) Decode(buf []byte, cfg *Config) {
	n.nodeHeader.decode(buf[0:nodeHeaderSize])
	off := nodeHeaderSize
	n.Keys = make([][]byte, cfg.Order)
	for i := 0; i < cfg.Order; i++ {
		k := make([]byte, cfg.KMax)
		copy(k, buf[off:off+cfg.KMax])
		n.Keys[i] = k
		off += cfg.KMax
	}
	n.Children = make([]uint64, cfg.Order+1)
	for i := 0; i < cfg.Order+1; i++ {
		n.Children[i] = binary.LittleEndian.Uint64(buf[off : off+8])
		off += 8
	}
}

// LeafNode is a leaf: Count key/value records. Keys and Values are always
// allocated to full capacity (Order); only the first Count slots are
// meaningful.
type LeafNode struct {
	nodeHeader
	Keys   [][]byte
	Values [][]byte
}

func (n *LeafNode) Offset() uint64     { return n.SelfOffset }
func (n *LeafNode) SetOffset(o uint64) { n.SelfOffset = o }

func (n *LeafNode) DiskSize(cfg *Config) int {
	return nodeHeaderSize + cfg.Order*(cfg.KMax+cfg.VMax)
}

func (n *LeafNode) Encode(buf []byte, cfg *Config) {
	n.nodeHeader.encode(buf[0:nodeHeaderSize])
	off := nodeHeaderSize
	for i := 0; i < cfg.Order; i++ {
		if i < len(n.Keys) {
			copy(buf[off:off+cfg.KMax], n.Keys[i])
		}
		off += cfg.KMax
		if i < len(n.Values) {
			copy(buf[off:off+cfg.VMax], n.Values[i])
		}
		off += cfg.VMax
	}
}

func (n *LeafNode) Decode(buf []byte, cfg *Config) {
	n.nodeHeader.decode(buf[0:nodeHeaderSize])
	off := nodeHeaderSize
	n.Keys = make([][]byte, cfg.Order)
	n.Values = make([][]byte, cfg.Order)
	for i := 0; i < cfg.Order; i++ {
		k := make([]byte, cfg.KMax)
		copy(k, buf[off:off+cfg.KMax])
		n.Keys[i] = k
		off += cfg.KMax

		v := make([]byte, cfg.VMax)
		copy(v, buf[off:off+cfg.VMax])
		n.Values[i] = v
		off += cfg.VMax
	}
}
