package fbptree

import "encoding/binary"

// MetaOffset is the fixed, always-zero offset of the Meta singleton.
const MetaOffset = 0

// metaSize is the fixed on-disk size of Meta. It does not depend on
// Config because Order/KMax/VMax are themselves fields of Meta: a reader
// must be able to load them before it knows how large the other node
// kinds are.
const metaSize = 8*5 + 4*3

// Meta is the file header: a singleton at offset 0. SelfOffset is kept
// even though it is always 0, so Meta shares the same self-offset prefix
// as every other node kind and the cache's generic machinery doesn't need
// a special case for it.
type Meta struct {
	SelfOffset      uint64
	RootOffset      uint64
	NextBlockOffset uint64
	Height          uint64
	Size            uint64
	Order           uint32
	KMax            uint32
	VMax            uint32
}

func (m *Meta) Offset() uint64     { return m.SelfOffset }
func (m *Meta) SetOffset(o uint64) { m.SelfOffset = o }

func (m *Meta) DiskSize(cfg *Config) int { return metaSize }

func (m *Meta) Encode(buf []byte, cfg *Config) {
	binary.LittleEndian.PutUint64(buf[0:8], m.SelfOffset)
	binary.LittleEndian.PutUint64(buf[8:16], m.RootOffset)
	binary.LittleEndian.PutUint64(buf[16:24], m.NextBlockOffset)
	binary.LittleEndian.PutUint64(buf[24:32], m.Height)
	binary.LittleEndian.PutUint64(buf[32:40], m.Size)
	binary.LittleEndian.PutUint32(buf[40:44], m.Order)
	binary.LittleEndian.PutUint32(buf[44:48], m.KMax)
	binary.LittleEndian.PutUint32(buf[48:52], m.VMax)
}

func (m *Meta) Decode(buf []byte, cfg *Config) {
	m.SelfOffset = binary.LittleEndian.Uint64(buf[0:8])
	m.RootOffset = binary.LittleEndian.Uint64(buf[8:16])
	m.NextBlockOffset = binary.LittleEndian.Uint64(buf[16:24])
	m.Height = binary.LittleEndian.Uint64(buf[24:32])
	m.Size = binary.LittleEndian.Uint64(buf[32:40])
	m.Order = binary.LittleEndian.Uint32(buf[40:44])
	m.KMax = binary.LittleEndian.Uint32(buf[44:48])
	m.VMax = binary.LittleEndian.Uint32(buf[48:52])
}
