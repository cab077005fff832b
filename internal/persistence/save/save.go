package save

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"beltforge/internal/persistence/indexdb"
	"beltforge/internal/sim/surface"
)

// SaveV1 is the persisted session state: zstd-compressed JSON, one file per
// save identifier.
type SaveV1 struct {
	Header    HeaderV1     `json:"header"`
	Resources []ResourceV1 `json:"resources,omitempty"`
	Entities  []EntityV1   `json:"entities,omitempty"`
}

type HeaderV1 struct {
	Version   int    `json:"version"`
	Name      string `json:"name"`
	Surface   string `json:"surface"`
	Tick      uint64 `json:"tick"`
	CreatedAt string `json:"created_at"`
}

type ResourceV1 struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Resource string `json:"resource"`
	Amount   int64  `json:"amount"`
}

type EntityV1 struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Inventory []ItemV1 `json:"inventory,omitempty"`
	Modules   []ItemV1 `json:"modules,omitempty"`
}

type ItemV1 struct {
	Name    string `json:"name"`
	Quality string `json:"quality"`
	Count   int    `json:"count"`
}

// Writer persists saves under <dir>/saves and records each one in the
// index DB when one is attached.
type Writer struct {
	dir   string
	index *indexdb.DB
	log   *log.Logger
}

func NewWriter(dir string, index *indexdb.DB, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{dir: dir, index: index, log: logger}
}

// Save implements session.SaveSink.
func (w *Writer) Save(name string, tick uint64, surf *surface.Surface) error {
	snap := snapshotOf(name, tick, surf)

	dir := filepath.Join(w.dir, "saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, sanitizeName(name)+".json.zst")
	if err := writeAtomic(path, snap); err != nil {
		return fmt.Errorf("write save %q: %w", name, err)
	}

	if w.index != nil {
		err := w.index.RecordSave(indexdb.SaveRow{
			Name:      name,
			Tick:      tick,
			Path:      path,
			Entities:  len(snap.Entities),
			Resources: len(snap.Resources),
			CreatedAt: snap.Header.CreatedAt,
		})
		if err != nil {
			// The save file itself is on disk; a missing index row is
			// recoverable, so log and carry on.
			w.log.Printf("index save %q: %v", name, err)
		}
	}
	return nil
}

func snapshotOf(name string, tick uint64, surf *surface.Surface) SaveV1 {
	snap := SaveV1{Header: HeaderV1{
		Version:   1,
		Name:      name,
		Surface:   surf.Name(),
		Tick:      tick,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}}
	for _, r := range surf.ExportResources() {
		snap.Resources = append(snap.Resources, ResourceV1{
			X: r.Tile.X, Y: r.Tile.Y, Resource: r.Resource, Amount: r.Amount,
		})
	}
	for _, e := range surf.ExportEntities() {
		snap.Entities = append(snap.Entities, EntityV1{
			ID: e.ID, Name: e.Name, Type: e.Type, X: e.Pos.X, Y: e.Pos.Y,
			Inventory: itemsV1(e.Inventory),
			Modules:   itemsV1(e.Modules),
		})
	}
	return snap
}

func itemsV1(stacks []surface.ItemStack) []ItemV1 {
	var out []ItemV1
	for _, st := range stacks {
		out = append(out, ItemV1{Name: st.Name, Quality: st.Quality, Count: st.Count})
	}
	return out
}

// Read loads a save file back. Used by tests and tooling.
func Read(path string) (SaveV1, error) {
	var snap SaveV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode save %s: %w", path, err)
	}
	return snap, nil
}

func writeAtomic(path string, snap SaveV1) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func sanitizeName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if s == "" {
		s = "save"
	}
	return s
}
