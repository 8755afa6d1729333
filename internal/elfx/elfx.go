// Package elfx provides helpers for opening ELF binaries, mapping virtual
// addresses to file offsets, and reading symbol tables with enough metadata
// to seed an analysis database.
package elfx

import (
	"debug/elf"
	"fmt"
	"os"
	"sort"
	"syscall"
)

type Image struct {
	Path  string
	File  *elf.File
	All   []byte
	Loads []Seg
	Text  Section
	PLT   Section
	Syms  []Sym
	f     *os.File
}

type Seg struct {
	Vaddr, Off, Filesz uint64
	Flags              elf.ProgFlag
}

type Section struct {
	Name          string
	VA, Off, Size uint64
}

// Sym is one symbol table entry. Dynamic marks entries that came from
// .dynsym rather than .symtab; Undefined marks references into other
// objects (SHN_UNDEF).
type Sym struct {
	Name      string
	Addr      uint64
	Size      uint64
	Kind      elf.SymType
	Dynamic   bool
	Undefined bool
}

func Open(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elf: %w", err)
	}

	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open file: %w", err)
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	all, err := syscall.Mmap(int(of.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		of.Close()
		f.Close()
		return nil, fmt.Errorf("mmap file: %w", err)
	}

	im := &Image{Path: path, File: f, All: all, f: of}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		im.Loads = append(im.Loads, Seg{
			Vaddr:  p.Vaddr,
			Off:    p.Off,
			Filesz: p.Filesz,
			Flags:  p.Flags,
		})
	}
	sort.Slice(im.Loads, func(i, j int) bool { return im.Loads[i].Vaddr < im.Loads[j].Vaddr })

	for _, s := range f.Sections {
		switch s.Name {
		case ".text":
			im.Text = Section{s.Name, s.Addr, s.Offset, s.Size}
		case ".plt":
			im.PLT = Section{s.Name, s.Addr, s.Offset, s.Size}
		}
	}

	im.loadSymbols()

	// Fallback for stripped binaries: treat the first executable segment
	// as text.
	if im.Text.Size == 0 {
		for _, l := range im.Loads {
			if l.Flags&elf.PF_X != 0 && l.Filesz > 0 {
				im.Text = Section{"LOAD(exec)", l.Vaddr, l.Off, l.Filesz}
				break
			}
		}
	}
	return im, nil
}

// Close unmaps the memory and closes the underlying files.
func (im *Image) Close() error {
	var err1, err2 error
	if im.All != nil {
		err1 = syscall.Munmap(im.All)
		im.All = nil
	}
	if im.f != nil {
		err2 = im.f.Close()
		im.f = nil
	}
	if im.File != nil {
		err3 := im.File.Close()
		if err3 != nil && err2 == nil {
			err2 = err3
		}
		im.File = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// Entry returns the ELF header entry point, 0 when the image declares none.
func (im *Image) Entry() uint64 {
	if im.File == nil {
		return 0
	}
	return im.File.Entry
}

// MinVaddr returns the lowest loadable virtual address.
func (im *Image) MinVaddr() uint64 {
	if len(im.Loads) == 0 {
		return 0
	}
	return im.Loads[0].Vaddr
}

// VA2Off translates a virtual address into a file offset using PT_LOAD
// segments. It returns false if VA is unmapped.
func (im *Image) VA2Off(va uint64) (uint64, bool) {
	for _, l := range im.Loads {
		if va >= l.Vaddr && va < l.Vaddr+l.Filesz {
			return l.Off + (va - l.Vaddr), true
		}
	}
	return 0, false
}

// SliceVA returns a subslice of the mapped file covering [va, va+size).
// It returns (nil, false) if the VA is unmapped or the range is out of bounds.
func (im *Image) SliceVA(va uint64, size uint64) ([]byte, bool) {
	off, ok := im.VA2Off(va)
	if !ok {
		return nil, false
	}
	if size == 0 {
		return []byte{}, true
	}
	end := off + size
	if end > uint64(len(im.All)) {
		return nil, false
	}
	return im.All[off:end], true
}

// SliceVAUpTo returns up to size bytes starting at va, clamped to the end of
// the containing segment. Used for decode windows near the image end.
func (im *Image) SliceVAUpTo(va uint64, size uint64) ([]byte, bool) {
	for _, l := range im.Loads {
		if va >= l.Vaddr && va < l.Vaddr+l.Filesz {
			avail := l.Vaddr + l.Filesz - va
			if size > avail {
				size = avail
			}
			off := l.Off + (va - l.Vaddr)
			if off+size > uint64(len(im.All)) {
				return nil, false
			}
			return im.All[off : off+size], true
		}
	}
	return nil, false
}

// InText reports whether the VA lies in the executable region.
func (im *Image) InText(va uint64) bool {
	return im.Text.Size != 0 && va >= im.Text.VA && va < im.Text.VA+im.Text.Size
}

// InPLT reports whether the VA lies in the PLT, indicating a dynamically
// linked stub.
func (im *Image) InPLT(va uint64) bool {
	return im.PLT.Size != 0 && va >= im.PLT.VA && va < im.PLT.VA+im.PLT.Size
}

// InWritableData reports whether the VA lies in a mapped, writable,
// non-executable segment.
func (im *Image) InWritableData(va uint64) bool {
	for _, l := range im.Loads {
		if va >= l.Vaddr && va < l.Vaddr+l.Filesz {
			return l.Flags&elf.PF_W != 0 && l.Flags&elf.PF_X == 0
		}
	}
	return false
}

// InReadOnlyData reports whether the VA lies in a mapped, read-only,
// non-executable segment.
func (im *Image) InReadOnlyData(va uint64) bool {
	for _, l := range im.Loads {
		if va >= l.Vaddr && va < l.Vaddr+l.Filesz {
			return l.Flags&elf.PF_W == 0 && l.Flags&elf.PF_X == 0
		}
	}
	return false
}

func (im *Image) loadSymbols() {
	if im.File == nil {
		return
	}

	if syms, err := im.File.Symbols(); err == nil {
		for _, s := range syms {
			im.Syms = append(im.Syms, convertSym(s, false))
		}
	}
	if dyns, err := im.File.DynamicSymbols(); err == nil {
		for _, s := range dyns {
			im.Syms = append(im.Syms, convertSym(s, true))
		}
	}
}

func convertSym(s elf.Symbol, dynamic bool) Sym {
	return Sym{
		Name:      s.Name,
		Addr:      s.Value,
		Size:      s.Size,
		Kind:      elf.ST_TYPE(s.Info),
		Dynamic:   dynamic,
		Undefined: s.Section == elf.SHN_UNDEF,
	}
}
