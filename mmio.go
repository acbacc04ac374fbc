package csi2rx

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevMemBus maps the receiver register block from physical memory and
// performs direct 32 and 16 bit loads and stores. Register offsets are
// relative to the block base.
type DevMemBus struct {
	f    *os.File
	mem  []byte
	off  uint32
	size uint32
}

// NewDevMemBus maps size bytes of the register block starting at the
// physical address base, by default through /dev/mem. The mapping is
// page aligned, accesses use the in-page offset.
func NewDevMemBus(path string, base uint64, size uint32) (*DevMemBus, error) {

	if path == "" {
		path = "/dev/mem"
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pageSize := uint64(unix.Getpagesize())
	pageBase := base &^ (pageSize - 1)
	pageOff := uint32(base - pageBase)

	mem, err := unix.Mmap(int(f.Fd()), int64(pageBase),
		int(uint64(pageOff)+uint64(size)),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)

	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %#x: %w", base, err)
	}

	return &DevMemBus{f: f, mem: mem, off: pageOff, size: size}, nil
}

// Close unmaps the register block.
func (b *DevMemBus) Close() error {

	err := unix.Munmap(b.mem)
	b.mem = nil

	if cerr := b.f.Close(); err == nil {
		err = cerr
	}

	return err
}

func (b *DevMemBus) check(reg uint32, width uint32) error {

	if reg+width > b.size || reg%width != 0 {
		return fmt.Errorf("register offset %#x out of mapped range", reg)
	}

	return nil
}

func (b *DevMemBus) Read(reg uint32) (uint32, error) {

	if err := b.check(reg, 4); err != nil {
		return 0, err
	}

	p := (*uint32)(unsafe.Pointer(&b.mem[b.off+reg]))

	return atomic.LoadUint32(p), nil
}

func (b *DevMemBus) Write(reg uint32, val uint32) error {

	if err := b.check(reg, 4); err != nil {
		return err
	}

	p := (*uint32)(unsafe.Pointer(&b.mem[b.off+reg]))
	atomic.StoreUint32(p, val)

	return nil
}

func (b *DevMemBus) Read16(reg uint32) (uint16, error) {

	if err := b.check(reg, 2); err != nil {
		return 0, err
	}

	p := (*uint16)(unsafe.Pointer(&b.mem[b.off+reg]))

	return *p, nil
}

func (b *DevMemBus) Write16(reg uint32, val uint16) error {

	if err := b.check(reg, 2); err != nil {
		return err
	}

	p := (*uint16)(unsafe.Pointer(&b.mem[b.off+reg]))
	*p = val

	return nil
}
