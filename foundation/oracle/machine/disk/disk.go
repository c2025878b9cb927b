// Package disk implements an append-only file store for the proposal digest
// ledger. Each save appends one JSON line; the last line per rate id wins on
// reload.
package disk

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// record is the wire form of one ledger entry.
type record struct {
	RateID string `json:"rate_id"`
	Digest string `json:"digest"`
}

// Store appends digests to a single file.
type Store struct {
	mu     sync.Mutex
	dbPath string
	dbFile *os.File
}

// New opens or creates the ledger file, creating the parent directory when
// needed.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	dbFile, err := os.OpenFile(dbPath, os.O_APPEND|os.O_RDWR, 0600)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		dbFile, err = os.OpenFile(dbPath, os.O_CREATE|os.O_RDWR, 0600)
		if err != nil {
			return nil, err
		}
	}

	return &Store{
		dbPath: dbPath,
		dbFile: dbFile,
	}, nil
}

// Close closes the ledger file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dbFile.Close()
}

// Save appends the digest for the rate id.
func (s *Store) Save(rateID commit.RateID, digest commit.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record{RateID: rateID.Hex(), Digest: digest.Hex()})
	if err != nil {
		return err
	}

	if _, err := s.dbFile.Write(append(data, '\n')); err != nil {
		return err
	}

	return nil
}

// Load replays the file and returns the latest digest per rate id.
func (s *Store) Load() (map[commit.RateID]commit.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbFile, err := os.Open(s.dbPath)
	if err != nil {
		return nil, err
	}
	defer dbFile.Close()

	digests := make(map[commit.RateID]commit.Digest)

	scanner := bufio.NewScanner(dbFile)
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, err
		}

		rateID, err := commit.ToRateID(rec.RateID)
		if err != nil {
			return nil, err
		}

		digest, err := commit.ToDigest(rec.Digest)
		if err != nil {
			return nil, err
		}

		digests[rateID] = digest
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return digests, nil
}
