// Package contact stores contact form submissions in a CSV table.
package contact

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// header is the first row of the table.
var header = []string{"name", "email", "message"}

// Message is one contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (m Message) Normalize() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
}

func (m Message) row() []string {
	return []string{m.Name, m.Email, m.Message}
}

// Store appends messages to a CSV file. Rows are never modified or removed.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by the file at path. The file does not need
// to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Append adds m as the last row of the table. The previous rows are kept in
// order. The table is rewritten through a temporary file and renamed into
// place, so a failed write leaves the old table intact.
func (s *Store) Append(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read()
	if err != nil {
		// An unreadable table is treated as empty.
		log.Printf("contact: starting new table, could not read %s: %v", s.path, err)
		rows = nil
	}
	rows = append(rows, m)

	if err := s.write(rows); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// List returns every stored message in insertion order. A missing table is
// empty.
func (s *Store) List() ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() ([]Message, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	first, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !sameHeader(first) {
		return nil, fmt.Errorf("unexpected header %q", first)
	}

	var msgs []Message
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(msgs)+1, err)
		}
		msgs = append(msgs, Message{Name: rec[0], Email: rec[1], Message: rec[2]})
	}
	return msgs, nil
}

func (s *Store) write(msgs []Message) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := WriteCSV(tmp, msgs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// WriteCSV writes msgs as a table with a header row.
func WriteCSV(w io.Writer, msgs []Message) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, m := range msgs {
		if err := cw.Write(m.row()); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func sameHeader(row []string) bool {
	for i, h := range header {
		// Spreadsheet editors sometimes prepend a byte order mark.
		if strings.TrimPrefix(strings.TrimSpace(row[i]), "\ufeff") != h {
			return false
		}
	}
	return true
}
