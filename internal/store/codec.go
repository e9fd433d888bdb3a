package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"imgctool/internal/model"
)

// File format:
//
//	header:     0x89 'I' 'C' 'T'
//	categories: (<name> (0x31 <checkbox>)* 0x30)* 0x30
//	filenames:  <name> (0x31 <name>)* 0x30, or a lone 0x30 when there are no files
//	file data:  per file, ByteWidth(total checkboxes) bytes, most significant
//	            byte first, record bit 0 = global checkbox index 0
var header = [4]byte{model.HeaderLead, 'I', 'C', 'T'}

// Encode writes st in the save format.
func Encode(w io.Writer, st *model.Store) error {
	bw := bufio.NewWriter(w)

	bw.Write(header[:])

	cats := st.Categories()
	for _, c := range cats {
		bw.WriteString(c.Name)
		for _, b := range c.Checkboxes {
			bw.WriteByte(model.UnitSep)
			bw.WriteString(b)
		}
		bw.WriteByte(model.RecordSep)
	}
	bw.WriteByte(model.RecordSep)

	files := st.Files()
	for i, f := range files {
		if i > 0 {
			bw.WriteByte(model.UnitSep)
		}
		bw.WriteString(f.Path)
	}
	bw.WriteByte(model.RecordSep)

	for _, f := range files {
		bw.Write(f.Tags.Record())
	}

	// bufio.Writer keeps the first error; Flush reports it.
	if err := bw.Flush(); err != nil {
		return persistErr(ErrWriteFailure, PhaseWrite, err)
	}
	return nil
}

func EncodeBytes(st *model.Store) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, st)
	return buf.Bytes()
}

// Decode reads a store in the save format. It runs four phases in order
// (header, categories, filenames, file data) and fails on the first problem
// instead of guessing at partial state.
func Decode(r io.Reader) (*model.Store, error) {
	br := bufio.NewReader(r)

	if err := decodeHeader(br); err != nil {
		return nil, err
	}
	cats, err := decodeCategories(br)
	if err != nil {
		return nil, err
	}
	paths, err := decodeFilenames(br)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, c := range cats {
		n += len(c.Checkboxes)
	}
	files, err := decodeFileData(br, paths, n)
	if err != nil {
		return nil, err
	}

	st, err := model.NewStoreFrom(cats, files)
	if err != nil {
		phase := PhaseCategories
		var ne *model.InvalidNameError
		if (errors.As(err, &ne) && ne.Kind == "path") || errors.Is(err, model.ErrDuplicatePath) {
			phase = PhaseFilenames
		}
		return nil, persistErr(ErrReadFailure, phase, err)
	}
	return st, nil
}

func DecodeBytes(b []byte) (*model.Store, error) {
	return Decode(bytes.NewReader(b))
}

func decodeHeader(r *bufio.Reader) error {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return persistErr(ErrHeaderInvalid, PhaseHeader, nil)
		}
		return persistErr(ErrReadFailure, PhaseHeader, err)
	}
	if got != header {
		return persistErr(ErrHeaderInvalid, PhaseHeader, nil)
	}
	return nil
}

func readErr(phase string, err error) error {
	if errors.Is(err, io.EOF) {
		return persistErr(ErrUnexpectedTermination, phase, nil)
	}
	return persistErr(ErrReadFailure, phase, err)
}

func decodeCategories(r *bufio.Reader) ([]model.Category, error) {
	// The section opens as if a record had just ended: a category is already
	// open, and a 0x30 right away means there are no categories.
	cats := []model.Category{{}}
	var buf []byte
	inBox := false
	last := model.RecordSep

	flush := func() {
		cur := &cats[len(cats)-1]
		if inBox {
			cur.Checkboxes = append(cur.Checkboxes, string(buf))
		} else {
			cur.Name = string(buf)
		}
		buf = buf[:0]
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, readErr(PhaseCategories, err)
		}
		switch b {
		case model.RecordSep:
			if last == model.RecordSep {
				// Two terminators in a row: drop the empty category the
				// sentinel opened.
				return cats[:len(cats)-1], nil
			}
			if last == model.UnitSep {
				return nil, persistErr(ErrZeroLengthName, PhaseCategories, nil)
			}
			flush()
			cats = append(cats, model.Category{})
			inBox = false
		case model.UnitSep:
			if last == model.RecordSep || last == model.UnitSep {
				return nil, persistErr(ErrZeroLengthName, PhaseCategories, nil)
			}
			flush()
			inBox = true
		default:
			buf = append(buf, b)
		}
		last = b
	}
}

func decodeFilenames(r *bufio.Reader) ([]string, error) {
	// The first filename has no 0x31 prefix; behave as if one was just read.
	paths := []string{""}
	var buf []byte
	last := model.UnitSep

	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, readErr(PhaseFilenames, err)
		}
		switch b {
		case model.RecordSep:
			if last == model.UnitSep {
				if len(paths) > 1 {
					return nil, persistErr(ErrZeroLengthName, PhaseFilenames, nil)
				}
				return nil, nil
			}
			paths[len(paths)-1] = string(buf)
			if err := checkDuplicatePaths(paths); err != nil {
				return nil, err
			}
			return paths, nil
		case model.UnitSep:
			if last == model.UnitSep {
				return nil, persistErr(ErrZeroLengthName, PhaseFilenames, nil)
			}
			paths[len(paths)-1] = string(buf)
			buf = buf[:0]
			paths = append(paths, "")
		default:
			buf = append(buf, b)
		}
		last = b
	}
}

// checkDuplicatePaths rejects a filename section that lists a path twice.
func checkDuplicatePaths(paths []string) error {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			return persistErr(ErrReadFailure, PhaseFilenames, fmt.Errorf("%w: %q", model.ErrDuplicatePath, p))
		}
		seen[p] = true
	}
	return nil
}

func decodeFileData(r *bufio.Reader, paths []string, n int) ([]model.File, error) {
	width := model.ByteWidth(n)
	files := make([]model.File, 0, len(paths))
	rec := make([]byte, width)
	for _, p := range paths {
		if _, err := io.ReadFull(r, rec); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				err = io.EOF
			}
			return nil, readErr(PhaseFileData, err)
		}
		files = append(files, model.File{Path: p, Tags: model.TagSetFromRecord(rec, n)})
	}

	if _, err := r.ReadByte(); err == nil {
		return nil, persistErr(ErrTrailingData, PhaseFileData, nil)
	} else if !errors.Is(err, io.EOF) {
		return nil, persistErr(ErrReadFailure, PhaseFileData, err)
	}
	return files, nil
}
