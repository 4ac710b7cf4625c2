package op

// Persisted dictionary layout. The NVM image starts with a small header
// followed by a fixed-size entry table and the name heap:
//
//	byte 0..1  dp, the heap free pointer (little-endian 16-bit)
//	byte 2     entry count
//	byte 3..   entries: { name_ptr: 2 bytes, value: 2 bytes }
//	heap..dp   NUL-terminated name strings
//
// A blank image reads as 0xFF everywhere; dp == 0xFFFF or an entry count
// at or above the dictionary capacity marks the image as empty.
const (
	NVMDPOffset      = 0
	NVMEntriesOffset = 2
	NVMDictOffset    = 3

	NVMNamePtrSize = 2
	NVMCellSize    = 2
	NVMEntrySize   = NVMNamePtrSize + NVMCellSize

	NVMBlankWord = 0xFFFF
)

// NVMHeapOffset returns the address of the first name heap byte for a
// dictionary with the given capacity.
func NVMHeapOffset(varMax int) int {
	return NVMDictOffset + varMax*NVMEntrySize
}
