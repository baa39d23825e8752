package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/kailas-cloud/careerdex/internal/domain"
)

// embeddingsHeaderLen is the magic plus the rows and dims fields.
const embeddingsHeaderLen = 12

// embeddingsMagic prefixes the embeddings file: magic, uint32 rows,
// uint32 dims, then rows*dims little-endian float32 values.
var embeddingsMagic = [4]byte{'C', 'D', 'X', 'E'}

// WriteEmbeddings stores a row-aligned matrix of equal-length vectors.
func WriteEmbeddings(path string, vectors [][]float32) error {
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dims {
			return fmt.Errorf("%w: row %d has %d dims, want %d", domain.ErrVectorDimMismatch, i, len(v), dims)
		}
	}

	return writeAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if _, err := bw.Write(embeddingsMagic[:]); err != nil {
			return err
		}
		var hdr [8]byte
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(vectors)))
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(dims))
		if _, err := bw.Write(hdr[:]); err != nil {
			return err
		}
		var buf [4]byte
		for _, v := range vectors {
			for _, f := range v {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
				if _, err := bw.Write(buf[:]); err != nil {
					return err
				}
			}
		}
		return bw.Flush()
	})
}

// ReadEmbeddings loads a file written by WriteEmbeddings. The header must
// agree with the file size before anything is allocated.
func ReadEmbeddings(path string) ([][]float32, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	r := bufio.NewReader(f)

	var hdr [embeddingsHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: embeddings header: %v", domain.ErrInvalidDataset, err)
	}
	if [4]byte(hdr[0:4]) != embeddingsMagic {
		return nil, fmt.Errorf("%w: %s is not an embeddings file", domain.ErrInvalidDataset, path)
	}
	rows32 := binary.LittleEndian.Uint32(hdr[4:8])
	dims32 := binary.LittleEndian.Uint32(hdr[8:12])
	if err := checkEmbeddingsSize(info.Size(), rows32, dims32); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDataset, path, err)
	}
	rows, dims := int(rows32), int(dims32)

	out := make([][]float32, rows)
	buf := make([]byte, 4*dims)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrInvalidDataset, i, err)
		}
		v := make([]float32, dims)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*j:]))
		}
		out[i] = v
	}
	return out, nil
}

func checkEmbeddingsSize(size int64, rows, dims uint32) error {
	if rows > 0 && dims == 0 {
		return fmt.Errorf("%d rows with zero dims", rows)
	}
	body := size - embeddingsHeaderLen
	if body < 0 || body%4 != 0 || uint64(body/4) != uint64(rows)*uint64(dims) {
		return fmt.Errorf("header declares %dx%d floats but file has %d bytes", rows, dims, size)
	}
	return nil
}
