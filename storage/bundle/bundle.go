// Package bundle packs stored artifacts into a tar archive so the inputs and
// fixtures of a benchmark run can be moved between stores as one file.
//
// Layout:
//
//	blocks/<cid>   raw artifact bytes
//	index.json     optional block list and labels ("hash-chain/input", ...)
//
// Export is byte-for-byte deterministic for a given set of CIDs and labels.
package bundle

import (
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/essential-contributions/zk-benchmarks/cidutil"
	"github.com/essential-contributions/zk-benchmarks/storage"
)

// FormatVersion is the index.json schema version.
const FormatVersion = 1

const (
	indexName   = "index.json"
	blockPrefix = "blocks/"
)

var epoch = time.Unix(0, 0).UTC()

// Index is the content of index.json.
type Index struct {
	Version int     `json:"version"`
	Blocks  []Block `json:"blocks"`
	Labels  []Label `json:"labels,omitempty"`
}

type Block struct {
	CID  string `json:"cid"`
	Size int    `json:"size"`
}

// Label names a block, for example "signature-batch/fixture".
type Label struct {
	Name string `json:"name"`
	CID  string `json:"cid"`
}

// ExportOptions controls Export.
type ExportOptions struct {
	// Labels are written to index.json. Every labelled CID is exported even
	// if it is missing from the id list.
	Labels map[string]cid.Cid
	// NoIndex omits index.json.
	NoIndex bool
}

// Export writes the blocks for ids (and labelled CIDs) to w in CID order.
// Every block is re-hashed before it is written.
func Export(ctx context.Context, w io.Writer, cas storage.CAS, ids []cid.Cid, opts ExportOptions) error {
	if cas == nil {
		return errors.New("bundle: nil store")
	}
	uniq := make(map[string]cid.Cid, len(ids)+len(opts.Labels))
	for _, id := range ids {
		if !id.Defined() {
			return storage.ErrInvalidCID
		}
		uniq[id.String()] = id
	}
	labels := make([]Label, 0, len(opts.Labels))
	for name, id := range opts.Labels {
		if name == "" {
			return errors.New("bundle: empty label")
		}
		if !id.Defined() {
			return fmt.Errorf("bundle: label %q: %w", name, storage.ErrInvalidCID)
		}
		uniq[id.String()] = id
		labels = append(labels, Label{Name: name, CID: id.String()})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

	keys := make([]string, 0, len(uniq))
	for k := range uniq {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tar.NewWriter(w)
	idx := Index{Version: FormatVersion, Blocks: make([]Block, 0, len(keys)), Labels: labels}
	for _, k := range keys {
		id := uniq[k]
		b, err := cas.Get(ctx, id)
		if err != nil {
			_ = tw.Close()
			return fmt.Errorf("bundle: get %s: %w", k, err)
		}
		if !cidutil.Matches(id, b) {
			_ = tw.Close()
			return storage.ErrCIDMismatch
		}
		if err := writeEntry(tw, blockPrefix+k, b); err != nil {
			_ = tw.Close()
			return err
		}
		idx.Blocks = append(idx.Blocks, Block{CID: k, Size: len(b)})
	}

	if !opts.NoIndex {
		b, err := json.Marshal(idx)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeEntry(tw, indexName, append(b, '\n')); err != nil {
			_ = tw.Close()
			return err
		}
	}
	return tw.Close()
}

// ImportOptions controls Import.
type ImportOptions struct {
	// IgnoreUnknown skips entries outside blocks/ instead of failing.
	IgnoreUnknown bool
}

// Import copies every block in the archive into cas and returns the parsed
// index (zero if the archive has none) and the imported CIDs in archive
// order. A block whose bytes do not match its name fails the import.
func Import(ctx context.Context, r io.Reader, cas storage.CAS, opts ImportOptions) (Index, []cid.Cid, error) {
	var idx Index
	if cas == nil {
		return idx, nil, errors.New("bundle: nil store")
	}
	tr := tar.NewReader(r)
	seen := map[string]bool{}
	var imported []cid.Cid
	for {
		if err := ctx.Err(); err != nil {
			return idx, imported, err
		}
		h, err := tr.Next()
		if err == io.EOF {
			return idx, imported, nil
		}
		if err != nil {
			return idx, imported, err
		}
		name, ok := cleanPath(h.Name)
		if !ok {
			return idx, imported, fmt.Errorf("bundle: invalid entry path %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return idx, imported, fmt.Errorf("bundle: unexpected entry type %q for %s", h.Typeflag, name)
		}

		switch {
		case name == indexName:
			if err := json.NewDecoder(tr).Decode(&idx); err != nil {
				return idx, imported, fmt.Errorf("bundle: %s: %w", indexName, err)
			}
		case strings.HasPrefix(name, blockPrefix):
			id, err := cid.Decode(strings.TrimPrefix(name, blockPrefix))
			if err != nil {
				return idx, imported, storage.ErrInvalidCID
			}
			if seen[id.String()] {
				return idx, imported, fmt.Errorf("bundle: duplicate block %s", id)
			}
			seen[id.String()] = true
			payload, err := io.ReadAll(tr)
			if err != nil {
				return idx, imported, err
			}
			if !cidutil.Matches(id, payload) {
				return idx, imported, fmt.Errorf("bundle: block %s: %w", id, storage.ErrCIDMismatch)
			}
			got, err := cas.Put(ctx, payload)
			if err != nil {
				return idx, imported, err
			}
			if !got.Equals(id) {
				return idx, imported, storage.ErrCIDMismatch
			}
			imported = append(imported, id)
		case opts.IgnoreUnknown:
		default:
			return idx, imported, fmt.Errorf("bundle: unknown entry %s", name)
		}
	}
}

// Lookup returns the CID labelled name.
func (idx Index) Lookup(name string) (cid.Cid, bool) {
	for _, l := range idx.Labels {
		if l.Name == name {
			id, err := cid.Decode(l.CID)
			return id, err == nil
		}
	}
	return cid.Undef, false
}

func writeEntry(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}

// cleanPath rejects absolute paths and any "." or ".." element.
func cleanPath(name string) (string, bool) {
	name = strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "./")
	if name == "" || strings.HasPrefix(name, "/") {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return "", false
		}
	}
	return path.Clean(name), true
}
