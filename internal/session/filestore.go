package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	fileStoreVersion = 1
	kdfIterations    = 100000
	saltSize         = 16
)

// entry is one encrypted value in the credentials file.
type entry struct {
	// Value is base64(nonce || ciphertext)
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type fileLayout struct {
	Version int               `json:"version"`
	Salt    string            `json:"salt"`
	Entries map[string]*entry `json:"entries"`
}

// FileStore persists values encrypted with AES-GCM in a single JSON file.
//
// The key is derived from a passphrase with PBKDF2-SHA256 and a random
// per-file salt. The file is written with mode 0600 inside a 0700 directory.
type FileStore struct {
	mu sync.RWMutex

	path       string
	passphrase string
	salt       []byte
	key        []byte
	entries    map[string]*entry
}

// NewFileStore opens (or prepares) the credentials file at path.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.New("credential passphrase cannot be empty")
	}

	fs := &FileStore{
		path:       path,
		passphrase: passphrase,
		entries:    make(map[string]*entry),
	}

	if _, err := os.Stat(path); err == nil {
		if err := fs.load(); err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		return fs, nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	fs.setSalt(salt)
	return fs, nil
}

// Path returns the location of the credentials file.
func (f *FileStore) Path() string {
	return f.path
}

// Get retrieves and decrypts a value.
func (f *FileStore) Get(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	e, ok := f.entries[key]
	if !ok {
		return "", ErrNotFound
	}

	value, err := f.decrypt(e.Value)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	return value, nil
}

// Put encrypts and stores a value, then flushes the file.
func (f *FileStore) Put(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	encrypted, err := f.encrypt(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}

	now := time.Now().UTC()
	createdAt := now
	if existing, ok := f.entries[key]; ok {
		createdAt = existing.CreatedAt
	}

	f.entries[key] = &entry{
		Value:     encrypted,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	if err := f.save(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key leaves the file untouched.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[key]; !ok {
		return nil
	}
	delete(f.entries, key)

	if err := f.save(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (f *FileStore) UpdatedAt(key string) (time.Time, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	e, ok := f.entries[key]
	if !ok {
		return time.Time{}, false
	}
	return e.UpdatedAt, true
}

func (f *FileStore) setSalt(salt []byte) {
	f.salt = salt
	f.key = pbkdf2.Key([]byte(f.passphrase), salt, kdfIterations, 32, sha256.New)
}

func (f *FileStore) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(f.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (f *FileStore) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(f.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (f *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileLayout{
		Version: fileStoreVersion,
		Salt:    base64.StdEncoding.EncodeToString(f.salt),
		Entries: f.entries,
	}, "", "  ")
	if err != nil {
		return err
	}

	// Write to a sibling file first so a crash never leaves a torn file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return err
	}
	if layout.Version != fileStoreVersion {
		return fmt.Errorf("unsupported credentials file version %d", layout.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(layout.Salt)
	if err != nil || len(salt) == 0 {
		return errors.New("credentials file has an invalid salt")
	}
	f.setSalt(salt)

	if layout.Entries != nil {
		f.entries = layout.Entries
	}
	return nil
}
