package source

import (
	"bytes"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a file inside its FileSet.
type FileID uint32

// FileFlags record how the bytes of a file were obtained.
type FileFlags uint8

const (
	// FileVirtual marks content that did not come from disk.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a UTF-8 byte order mark stripped on load.
	FileHadBOM
	// FileNormalizedCRLF marks \r\n pairs rewritten to \n on load.
	FileNormalizedCRLF
)

// File is one declaration file. Content is stored after normalization;
// Hash is the sha256 of Content and keys the unit cache.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n' in Content.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}

// Position resolves a byte offset of f.
func (f *File) Position(off uint32) LineCol {
	// число переводов строк строго до off
	n, _ := slices.BinarySearch(f.LineIdx, off)
	if n == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	return LineCol{Line: mustU32(n + 1), Col: off - f.LineIdx[n-1]}
}

// GetLine returns the 1-based line without its line break, or "" when the
// file has no such line.
func (f *File) GetLine(lineNum uint32) string {
	if f == nil || lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if lineNum > 1 {
		start = int(f.LineIdx[lineNum-2]) + 1
	}
	end := len(f.Content)
	if int(lineNum) <= len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	return string(f.Content[start:end])
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a leading BOM and rewrites \r\n to \n. A lone \r is kept.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, bom); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

func lineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte("\n")))
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, mustU32(i))
		}
	}
	return idx
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source: offset overflow: %w", err))
	}
	return v
}
