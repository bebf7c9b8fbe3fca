package identity

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/anonputraid/zetcipher/internal/core/domain"
	"github.com/anonputraid/zetcipher/internal/storage"
	"github.com/anonputraid/zetcipher/pkg/textcodec"
)

const keyPrefix = "identity/"

// Record is one registered identity.
type Record struct {
	ID        string    `json:"id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Directory is the badger-backed identity registry.
type Directory struct {
	kv    storage.KVEngine
	now   func() time.Time
	count atomic.Int64
}

// NewDirectory opens the registry stored in kv.
func NewDirectory(ctx context.Context, kv storage.KVEngine) (*Directory, error) {
	d := &Directory{kv: kv, now: time.Now}

	var n int64
	err := kv.Scan(ctx, []byte(keyPrefix), func(_, _ []byte) bool {
		n++
		return true
	})
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	d.count.Store(n)
	return d, nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

// Add registers id. Identities follow the text alphabet minus '/', since
// they are embedded in token payloads.
func (d *Directory) Add(ctx context.Context, id, note string) (Record, error) {
	if !textcodec.ScanText(id) {
		return Record{}, domain.ErrInvalidInput.WithDetails("identity must match [a-zA-Z0-9 -]+")
	}

	rec := Record{ID: id, Note: note, CreatedAt: d.now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, domain.ErrInternal.WithCause(err)
	}

	ok, err := d.kv.SetIfAbsent(ctx, key(id), data)
	if err != nil {
		return Record{}, domain.ErrStorage.WithCause(err)
	}
	if !ok {
		return Record{}, domain.ErrIdentityConflict.WithDetails(id)
	}
	d.count.Add(1)
	return rec, nil
}

// Get returns the record of id.
func (d *Directory) Get(ctx context.Context, id string) (Record, error) {
	data, err := d.kv.Get(ctx, key(id))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return Record{}, domain.ErrIdentityNotFound.WithDetails(id)
	}
	if err != nil {
		return Record{}, domain.ErrStorage.WithCause(err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, domain.ErrStorage.WithDetailsf("corrupt record for %q", id).WithCause(err)
	}
	return rec, nil
}

// Remove unregisters id.
func (d *Directory) Remove(ctx context.Context, id string) error {
	ok, err := d.kv.DeleteIfPresent(ctx, key(id))
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if !ok {
		return domain.ErrIdentityNotFound.WithDetails(id)
	}
	d.count.Add(-1)
	return nil
}

// List returns every record in id order.
func (d *Directory) List(ctx context.Context) ([]Record, error) {
	var (
		out     []Record
		corrupt error
	)
	err := d.kv.Scan(ctx, []byte(keyPrefix), func(k, v []byte) bool {
		var rec Record
		if err := json.Unmarshal(v, &rec); err != nil {
			corrupt = domain.ErrStorage.WithDetailsf("corrupt record at %q", k).WithCause(err)
			return false
		}
		out = append(out, rec)
		return true
	})
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	if corrupt != nil {
		return nil, corrupt
	}
	return out, nil
}

// Exists reports whether id is registered.
func (d *Directory) Exists(ctx context.Context, id string) (bool, error) {
	_, err := d.kv.Get(ctx, key(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrKeyNotFound):
		return false, nil
	}
	return false, domain.ErrStorage.WithCause(err)
}

// Current returns the caller carried by ctx.
func (d *Directory) Current(ctx context.Context) (string, error) {
	id, ok := CallerFromContext(ctx)
	if !ok {
		return "", domain.ErrIdentityNotFound.WithDetails("request carries no identity")
	}
	return id, nil
}

// Count returns the number of registered identities.
func (d *Directory) Count() int {
	return int(d.count.Load())
}
