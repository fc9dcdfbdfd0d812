package utils

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"unsafe"
)

func init() {
	checkCompiler()
}

// Enforces a 64bit machine due to assumptions about size of ints.
func checkCompiler() {
	myInt := int(math.MaxInt64) // Shouldn't compile on a 32 bit system.
	myInt64 := int64(math.MaxInt64)
	if uint64(myInt) != uint64(myInt64) {
		panic("Must be on 64 bit system.")
	}
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Creates the parent directory of path if needed.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Opens each named file in turn, or stdin if there are none. Mirrors the usual filter contract.
func InputReader(names []string) (io.Reader, func(), error) {
	if len(names) == 0 {
		return os.Stdin, func() {}, nil
	}
	readers := make([]io.Reader, 0, len(names))
	files := make([]*os.File, 0, len(names))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, name := range names {
		if name == "-" {
			readers = append(readers, os.Stdin)
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, bufio.NewReader(f))
	}
	return io.MultiReader(readers...), closeAll, nil
}

// Parses an unsigned decimal. False for an empty string, any non-digit, or a value beyond uint32.
func ToIntStr(buf string) (uint32, bool) {
	if len(buf) == 0 {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(buf); i++ {
		if buf[i] < '0' || buf[i] > '9' {
			return 0, false
		}
		n = n*10 + uint64(buf[i]-'0')
		if n > math.MaxUint32 {
			return 0, false
		}
	}
	return uint32(n), true
}

// var asciiSpace = [256]uint8{'\t': 1, '\n': 1, '\v': 1, '\f': 1, '\r': 1, ' ': 1}
const SPACE_MASK = 1<<9 | 1<<10 | 1<<11 | 1<<12 | 1<<13 | 1<<32

func isByteSpace(b byte) bool {
	return ((SPACE_MASK & (1 << b)) != 0)
}

// ASCII only, no re-allocation. Fields point into byteBuff.
// Appends to fieldBuff[:0] and returns it, so the caller can reuse the backing array across lines.
func FastFields(fieldBuff []string, byteBuff []byte) []string {
	fieldBuff = fieldBuff[:0]
	i := 0
	// Skip spaces in the front of the input.
	for i < len(byteBuff) && isByteSpace(byteBuff[i]) {
		i++
	}
	fieldStart := i
	for i < len(byteBuff) {
		if !isByteSpace(byteBuff[i]) {
			i++
			continue
		}
		b := byteBuff[fieldStart:i]
		fieldBuff = append(fieldBuff, *(*string)(unsafe.Pointer(&b)))

		i++
		// Skip spaces in between fields.
		for i < len(byteBuff) && isByteSpace(byteBuff[i]) {
			i++
		}
		fieldStart = i
	}
	if fieldStart < len(byteBuff) { // Last field might end at EOF.
		b := byteBuff[fieldStart:]
		fieldBuff = append(fieldBuff, *(*string)(unsafe.Pointer(&b)))
	}
	return fieldBuff
}
