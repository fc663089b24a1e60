package library

import (
	"fmt"
	"time"
)

func addFile(q querier, f *File) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO files (volume_id, path, size_bytes, added_at)
		VALUES (?, ?, ?, ?)`,
		f.VolumeID, f.Path, f.SizeBytes, now,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	f.ID = id
	f.AddedAt = now
	return nil
}

// AddFile inserts a new file record.
// Sets ID and AddedAt on the struct.
func (s *Store) AddFile(f *File) error { return addFile(s.db, f) }

// AddFile inserts a new file record within a transaction.
func (t *Tx) AddFile(f *File) error { return addFile(t.tx, f) }

func listFiles(q querier, volumeID string) ([]*File, error) {
	rows, err := q.Query(`
		SELECT id, volume_id, path, size_bytes, added_at
		FROM files WHERE volume_id = ? ORDER BY path`, volumeID)
	if err != nil {
		return nil, fmt.Errorf("list files %s: %w", volumeID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.VolumeID, &f.Path, &f.SizeBytes, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return results, nil
}

// ListFiles returns a volume's file records ordered by path.
func (s *Store) ListFiles(volumeID string) ([]*File, error) { return listFiles(s.db, volumeID) }

// ListFiles returns a volume's file records within a transaction.
func (t *Tx) ListFiles(volumeID string) ([]*File, error) { return listFiles(t.tx, volumeID) }
