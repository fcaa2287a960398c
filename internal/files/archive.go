package files

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"certinator/internal/domain"
)

type entry struct {
	name string
	data []byte
}

// Archive collects certificate files in memory and writes them as one ZIP.
// Entries keep the order in which their names were first added.
type Archive struct {
	policy  string
	entries []entry
	index   map[string]int
}

func NewArchive(policy string) *Archive {
	if policy == "" {
		policy = domain.CollisionOverwrite
	}
	return &Archive{
		policy: policy,
		index:  make(map[string]int),
	}
}

// Add stores data under name, resolving name clashes with the archive's
// policy. It returns the entry name actually used.
func (a *Archive) Add(name string, data []byte) (string, error) {
	i, exists := a.index[name]
	if !exists {
		a.put(name, data)
		return name, nil
	}

	switch a.policy {
	case domain.CollisionOverwrite:
		a.entries[i].data = data
		return name, nil
	case domain.CollisionSuffix:
		unique := a.uniqueName(name)
		a.put(unique, data)
		return unique, nil
	default:
		return "", &domain.ValidationError{
			Input: "names",
			Err:   fmt.Errorf("%w: %s", domain.ErrFilenameCollision, name),
		}
	}
}

func (a *Archive) put(name string, data []byte) {
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, entry{name: name, data: data})
}

func (a *Archive) uniqueName(name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, taken := a.index[candidate]; !taken {
			return candidate
		}
	}
}

func (a *Archive) Len() int {
	return len(a.entries)
}

func (a *Archive) Names() []string {
	names := make([]string, len(a.entries))
	for i, e := range a.entries {
		names[i] = e.name
	}
	return names
}

// WriteTo writes the ZIP archive to w.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, e := range a.entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			return cw.n, fmt.Errorf("create zip entry %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return cw.n, fmt.Errorf("write zip entry %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("finalize zip: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
