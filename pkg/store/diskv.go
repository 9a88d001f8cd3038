package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/daylog/pkg/activity"
)

// stored is the on-disk envelope. Created fixes list order across restarts.
type stored struct {
	activity.Record
	Created time.Time `json:"created"`
}

// Diskv keeps one JSON file per record under a base directory.
type Diskv struct {
	d        *diskv.Diskv
	basePath string

	// mu orders writes so Created stays monotonic.
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewDiskv opens (creating if needed) a store rooted at basePath.
func NewDiskv(basePath string) (*Diskv, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// Other processes write the same directory, so every read goes to disk.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		now:      time.Now,
	}, nil
}

func (p *Diskv) read(key string) (stored, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return stored{}, err
	}
	var s stored
	if err := json.Unmarshal(val, &s); err != nil {
		return stored{}, fmt.Errorf("store: decode %s: %w", key, err)
	}
	s.ID = activity.ID(key)
	return s, nil
}

func (p *Diskv) readAll(ctx context.Context) ([]stored, error) {
	cancel := make(chan struct{})
	defer close(cancel)

	var all []stored
	for key := range p.d.Keys(cancel) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := p.read(key)
		if err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	sortStored(all)
	return all, nil
}

func (p *Diskv) List(ctx context.Context, skip, limit int) ([]activity.Record, error) {
	all, err := p.readAll(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]activity.Record, len(all))
	for i, s := range all {
		records[i] = s.Record
	}
	return window(records, skip, limit), nil
}

func (p *Diskv) Get(_ context.Context, id activity.ID) (activity.Record, error) {
	if id == "" || !p.d.Has(string(id)) {
		return activity.Record{}, ErrNotFound
	}
	s, err := p.read(string(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return activity.Record{}, ErrNotFound
		}
		return activity.Record{}, err
	}
	return s.Record, nil
}

func (p *Diskv) Insert(_ context.Context, r activity.Record) error {
	if r.ID == "" {
		return errors.New("store: record id required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.d.Has(string(r.ID)) {
		return fmt.Errorf("store: activity %s already exists", r.ID)
	}
	return p.write(stored{Record: r, Created: p.nextCreated()})
}

func (p *Diskv) Update(_ context.Context, r activity.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r.ID == "" || !p.d.Has(string(r.ID)) {
		return ErrNotFound
	}
	prev, err := p.read(string(r.ID))
	if err != nil {
		return err
	}
	return p.write(stored{Record: r, Created: prev.Created})
}

func (p *Diskv) Delete(_ context.Context, id activity.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" || !p.d.Has(string(id)) {
		return ErrNotFound
	}
	return p.d.Erase(string(id))
}

func (p *Diskv) Close() error {
	return nil
}

func (p *Diskv) write(s stored) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.d.Write(string(s.ID), data)
}

func (p *Diskv) nextCreated() time.Time {
	t := p.now().UTC()
	if !t.After(p.last) {
		t = p.last.Add(time.Nanosecond)
	}
	p.last = t
	return t
}

func sortStored(all []stored) {
	sort.SliceStable(all, func(i, j int) bool {
		lt, rt := all[i].Created, all[j].Created
		if lt.Equal(rt) {
			return all[i].ID < all[j].ID
		}
		return lt.Before(rt)
	})
}

// keyToPathTransform shards records into two-character directories so a
// long history does not pile up in one folder.
func keyToPathTransform(key string) *diskv.PathKey {
	if len(key) < 2 {
		return &diskv.PathKey{Path: []string{"_"}, FileName: key}
	}
	return &diskv.PathKey{Path: []string{key[:2]}, FileName: key}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
