package shell

import (
	"go.creack.net/charsh/board"
	"go.creack.net/charsh/op"
)

// nvmDict keeps both the name heap and the value cells in the
// persistent byte store, laid out per op/header.go. Values are 16-bit
// little-endian cells, sign-extended on load.
type nvmDict struct {
	nvm board.NVM
	max int

	dp      int
	entries int
}

func newNVMDict(nvm board.NVM, max int) *nvmDict {
	d := &nvmDict{nvm: nvm, max: max}
	dp := nvm.ReadWord(op.NVMDPOffset)
	entries := int(nvm.ReadByte(op.NVMEntriesOffset))
	if dp == op.NVMBlankWord || entries >= max {
		// Blank or corrupted image: start over.
		d.dp = op.NVMHeapOffset(max)
		d.entries = 0
		d.writeHeader()
		return d
	}
	d.dp = int(dp)
	d.entries = entries
	return d
}

func (d *nvmDict) writeHeader() {
	d.nvm.WriteWord(op.NVMDPOffset, uint16(d.dp))
	d.nvm.UpdateByte(op.NVMEntriesOffset, byte(d.entries))
}

func (d *nvmDict) entryOffset(idx int) int {
	return op.NVMDictOffset + idx*op.NVMEntrySize
}

func (d *nvmDict) namePtr(idx int) int {
	return int(d.nvm.ReadWord(d.entryOffset(idx)))
}

// load copies every persisted value cell into the variable table.
// Called once at construction.
func (d *nvmDict) load(cells []Value) {
	for i := 0; i < d.entries && i < len(cells); i++ {
		raw := d.nvm.ReadWord(d.entryOffset(i) + op.NVMNamePtrSize)
		cells[i] = Value(int16(raw))
	}
}

func (d *nvmDict) find(name []byte) int {
	for i := 0; i < d.entries; i++ {
		p := d.namePtr(i)
		j := 0
		for ; j < len(name); j++ {
			if d.nvm.ReadByte(p+j) != name[j] {
				break
			}
		}
		if j == len(name) && d.nvm.ReadByte(p+j) == 0 {
			return i
		}
	}
	return -1
}

func (d *nvmDict) add(name []byte) int {
	if d.entries >= d.max || d.dp+len(name)+1 > d.nvm.Size() {
		return -1
	}
	idx := d.entries

	// Name bytes first, then the entry, then the header: an interrupted
	// write leaves the old header and the image stays consistent.
	buf := make([]byte, 0, len(name)+1)
	buf = append(buf, name...)
	buf = append(buf, 0)
	d.nvm.UpdateBlock(buf, d.dp)

	d.nvm.WriteWord(d.entryOffset(idx), uint16(d.dp))
	d.nvm.WriteWord(d.entryOffset(idx)+op.NVMNamePtrSize, 0)

	d.dp += len(name) + 1
	d.entries++
	d.writeHeader()
	return idx
}

func (d *nvmDict) name(idx int) (string, bool) {
	if idx < 0 || idx >= d.entries {
		return "", false
	}
	p := d.namePtr(idx)
	var buf []byte
	for i := 0; ; i++ {
		c := d.nvm.ReadByte(p + i)
		if c == 0 || c == 0xFF {
			break
		}
		buf = append(buf, c)
	}
	return string(buf), true
}

func (d *nvmDict) count() int { return d.entries }

func (d *nvmDict) persist(idx int, val Value) {
	if idx < 0 || idx >= d.entries {
		return
	}
	d.nvm.WriteWord(d.entryOffset(idx)+op.NVMNamePtrSize, uint16(int16(val)))
}

func (d *nvmDict) stats() (Value, Value) {
	return Value(d.dp), Value(d.entries)
}

func (d *nvmDict) forget(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx >= d.entries {
		return
	}
	d.dp = d.namePtr(idx)
	d.entries = idx
	d.writeHeader()
}
