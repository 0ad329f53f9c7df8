package vectorindex

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philippweder/wine-shop/internal/sommelier/schema"
)

// The persisted artifact is a directory with three files: a manifest recording
// the embedding model and dimensionality, the raw vectors, and the documents
// with their metadata.
const (
	manifestFile  = "manifest.json"
	vectorsFile   = "vectors.gob"
	documentsFile = "documents.json"
)

// manifest describes a persisted index. Load refuses artifacts whose model or
// dimensionality disagree with the running configuration.
type manifest struct {
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
	Count     int    `json:"count"`
}

// Persist serializes the index to a directory at path, creating parent
// directories as needed. The artifact is written to a temporary directory
// first and swapped into place only once complete, so a failure mid-write
// never replaces a previous good index with a partial one.
func (x *Index) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create index parent directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("failed to clear temporary index directory: %w", err)
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fmt.Errorf("failed to create temporary index directory: %w", err)
	}

	if err := x.writeArtifact(tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}

	// Swap the finished artifact into place. The old index is moved aside
	// rather than deleted first, so the rename is the only destructive step.
	old := path + ".old"
	if err := os.RemoveAll(old); err != nil {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("failed to clear previous index backup: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, old); err != nil {
			_ = os.RemoveAll(tmp)
			return fmt.Errorf("failed to move previous index aside: %w", err)
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		// Try to put the previous index back before reporting.
		if _, statErr := os.Stat(old); statErr == nil {
			_ = os.Rename(old, path)
		}
		return fmt.Errorf("failed to move new index into place: %w", err)
	}
	return os.RemoveAll(old)
}

func (x *Index) writeArtifact(dir string) error {
	m := manifest{
		Model:     x.model,
		Dimension: x.dimension,
		Count:     len(x.documents),
	}
	manifestData, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode index manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), manifestData, 0o644); err != nil {
		return fmt.Errorf("failed to write index manifest: %w", err)
	}

	vf, err := os.Create(filepath.Join(dir, vectorsFile))
	if err != nil {
		return fmt.Errorf("failed to create vectors file: %w", err)
	}
	if err := gob.NewEncoder(vf).Encode(x.vectors); err != nil {
		vf.Close()
		return fmt.Errorf("failed to encode vectors: %w", err)
	}
	if err := vf.Close(); err != nil {
		return fmt.Errorf("failed to write vectors file: %w", err)
	}

	docsData, err := json.Marshal(x.documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, documentsFile), docsData, 0o644); err != nil {
		return fmt.Errorf("failed to write documents file: %w", err)
	}
	return nil
}

// Load deserializes an index from the directory at path. It returns
// ErrNotFound when no artifact exists there, ErrCorrupt when one exists but
// cannot be read back consistently, and ErrIncompatible when the artifact was
// built under a different embedding model than the given one.
//
// Load must only be pointed at artifacts produced by this system's own
// indexing pipeline. A directory of attacker-supplied files is outside the
// trust boundary: the decoder will reject most malformed input as ErrCorrupt,
// but the format carries no authentication.
func Load(path, model string) (*Index, error) {
	manifestData, err := os.ReadFile(filepath.Join(path, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no artifact at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: unreadable manifest: %v", ErrCorrupt, err)
	}

	var m manifest
	if err := json.Unmarshal(manifestData, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid manifest: %v", ErrCorrupt, err)
	}
	if m.Model != model {
		return nil, fmt.Errorf("%w: artifact built with model %q, configured model is %q",
			ErrIncompatible, m.Model, model)
	}

	vf, err := os.Open(filepath.Join(path, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: missing vectors file: %v", ErrCorrupt, err)
	}
	defer vf.Close()
	var vectors [][]float32
	if err := gob.NewDecoder(vf).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("%w: undecodable vectors: %v", ErrCorrupt, err)
	}

	docsData, err := os.ReadFile(filepath.Join(path, documentsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: missing documents file: %v", ErrCorrupt, err)
	}
	var documents []*schema.Document
	if err := json.Unmarshal(docsData, &documents); err != nil {
		return nil, fmt.Errorf("%w: undecodable documents: %v", ErrCorrupt, err)
	}

	if len(vectors) != len(documents) || len(vectors) != m.Count {
		return nil, fmt.Errorf("%w: manifest count %d, %d vectors, %d documents",
			ErrCorrupt, m.Count, len(vectors), len(documents))
	}
	for i, v := range vectors {
		if len(v) != m.Dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, manifest says %d",
				ErrCorrupt, i, len(v), m.Dimension)
		}
	}

	return &Index{
		model:     m.Model,
		dimension: m.Dimension,
		vectors:   vectors,
		documents: documents,
	}, nil
}
