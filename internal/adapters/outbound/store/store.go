package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/addonhub/devhub/internal/domain"
)

var (
	annotationsBucket = []byte("annotations")
	resultsBucket     = []byte("results")
)

// Store is a bbolt-backed implementation of domain.AnnotationStore and
// domain.ResultStore. Annotations live in one nested bucket per file hash,
// keyed by message key.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

type annotationRecord struct {
	IgnoreDuplicates *bool `json:"ignore_duplicates"`
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{annotationsBucket, resultsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AnnotationsFor(ctx context.Context, fileHash string) ([]domain.StoredAnnotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.StoredAnnotation
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(annotationsBucket).Bucket([]byte(fileHash))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec annotationRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding annotation %q: %w", k, err)
			}
			out = append(out, domain.StoredAnnotation{
				FileHash:         fileHash,
				MessageKey:       string(k),
				IgnoreDuplicates: rec.IgnoreDuplicates,
			})
			return nil
		})
	})
	return out, err
}

func (s *Store) PutAnnotation(ctx context.Context, a domain.StoredAnnotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.FileHash == "" || a.MessageKey == "" {
		return fmt.Errorf("annotation needs a file hash and a message key")
	}
	data, err := json.Marshal(annotationRecord{IgnoreDuplicates: a.IgnoreDuplicates})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(annotationsBucket).CreateBucketIfNotExists([]byte(a.FileHash))
		if err != nil {
			return err
		}
		return b.Put([]byte(a.MessageKey), data)
	})
}

func (s *Store) CopyAnnotations(ctx context.Context, fromHash, toHash string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if fromHash == toHash {
		return 0, nil
	}
	copied := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(annotationsBucket)
		src := root.Bucket([]byte(fromHash))
		if src == nil {
			return nil
		}
		dst, err := root.CreateBucketIfNotExists([]byte(toHash))
		if err != nil {
			return err
		}
		return src.ForEach(func(k, v []byte) error {
			if dst.Get(k) != nil {
				return nil
			}
			copied++
			return dst.Put(k, v)
		})
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

func (s *Store) SaveResult(ctx context.Context, v *domain.StoredValidation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.FileHash == "" {
		return fmt.Errorf("stored validation needs a file hash")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(resultsBucket)
		if b.Get([]byte(v.FileHash)) != nil {
			return domain.ErrResultExists
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		v.Sequence = seq
		if v.CreatedAt.IsZero() {
			v.CreatedAt = s.now().UTC()
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding validation: %w", err)
		}
		return b.Put([]byte(v.FileHash), data)
	})
}

func (s *Store) LoadResult(ctx context.Context, fileHash string) (*domain.StoredValidation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.StoredValidation
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(resultsBucket).Get([]byte(fileHash))
		if data == nil {
			return domain.ErrResultNotFound
		}
		var v domain.StoredValidation
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decoding validation %s: %w", fileHash, err)
		}
		out = &v
		return nil
	})
	return out, err
}

func (s *Store) ResultsForAddon(ctx context.Context, addonGUID string) ([]domain.StoredValidation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.StoredValidation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(resultsBucket).ForEach(func(k, data []byte) error {
			var v domain.StoredValidation
			if err := json.Unmarshal(data, &v); err != nil {
				return fmt.Errorf("decoding validation %s: %w", k, err)
			}
			if v.AddonGUID == addonGUID {
				out = append(out, v)
			}
			return nil
		})
	})
	return out, err
}

func (s *Store) MarkApproved(ctx context.Context, fileHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(resultsBucket)
		data := b.Get([]byte(fileHash))
		if data == nil {
			return domain.ErrResultNotFound
		}
		var v domain.StoredValidation
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decoding validation %s: %w", fileHash, err)
		}
		v.Approved = true
		updated, err := json.Marshal(&v)
		if err != nil {
			return err
		}
		return b.Put([]byte(fileHash), updated)
	})
}
