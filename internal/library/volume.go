package library

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func encodeMissing(missing []string) (string, error) {
	if len(missing) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(missing)
	if err != nil {
		return "", fmt.Errorf("encode missing pages: %w", err)
	}
	return string(data), nil
}

func decodeMissing(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var missing []string
	if err := json.Unmarshal([]byte(raw), &missing); err != nil {
		return nil, fmt.Errorf("decode missing pages: %w", err)
	}
	return missing, nil
}

func addVolume(q querier, v *Volume) error {
	now := time.Now()
	missing, err := encodeMissing(v.Missing)
	if err != nil {
		return err
	}
	_, err = q.Exec(`
		INSERT INTO volumes (id, series_id, series_name, name, page_count, chars, size_bytes, thumbnail, image_only, missing, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.SeriesID, v.SeriesName, v.Name, v.PageCount, v.Chars, v.SizeBytes, v.Thumbnail, v.ImageOnly, missing, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert volume: %w", mapSQLiteError(err))
	}
	v.AddedAt = now
	v.UpdatedAt = now
	return nil
}

// AddVolume inserts a new volume into the catalog.
// Sets AddedAt and UpdatedAt on the struct.
func (s *Store) AddVolume(v *Volume) error { return addVolume(s.db, v) }

// AddVolume inserts a new volume within a transaction.
func (t *Tx) AddVolume(v *Volume) error { return addVolume(t.tx, v) }

const volumeColumns = "id, series_id, series_name, name, page_count, chars, size_bytes, thumbnail, image_only, missing, added_at, updated_at"

func scanVolume(row interface{ Scan(...any) error }) (*Volume, error) {
	v := &Volume{}
	var missing string
	err := row.Scan(&v.ID, &v.SeriesID, &v.SeriesName, &v.Name, &v.PageCount, &v.Chars, &v.SizeBytes, &v.Thumbnail, &v.ImageOnly, &missing, &v.AddedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Missing, err = decodeMissing(missing)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func getVolume(q querier, id string) (*Volume, error) {
	row := q.QueryRow("SELECT "+volumeColumns+" FROM volumes WHERE id = ?", id)
	v, err := scanVolume(row)
	if err != nil {
		return nil, fmt.Errorf("get volume %s: %w", id, mapSQLiteError(err))
	}
	return v, nil
}

// GetVolume retrieves a volume by its UUID.
// Returns ErrNotFound if the volume does not exist.
func (s *Store) GetVolume(id string) (*Volume, error) { return getVolume(s.db, id) }

// GetVolume retrieves a volume by its UUID within a transaction.
func (t *Tx) GetVolume(id string) (*Volume, error) { return getVolume(t.tx, id) }

func volumeExists(q querier, id string) (bool, error) {
	var n int
	if err := q.QueryRow("SELECT COUNT(*) FROM volumes WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("volume exists %s: %w", id, mapSQLiteError(err))
	}
	return n > 0, nil
}

// Exists reports whether a volume with the given UUID is already in the
// catalog. This is the duplicate check run before an import writes
// anything.
func (s *Store) Exists(id string) (bool, error) { return volumeExists(s.db, id) }

// Exists reports whether a volume exists within a transaction.
func (t *Tx) Exists(id string) (bool, error) { return volumeExists(t.tx, id) }

func listVolumes(q querier, f VolumeFilter) ([]*Volume, int, error) {
	var conditions []string
	var args []any

	if f.SeriesID != nil {
		conditions = append(conditions, "series_id = ?")
		args = append(args, *f.SeriesID)
	}
	if f.SeriesName != nil {
		conditions = append(conditions, "series_name = ?")
		args = append(args, *f.SeriesName)
	}
	if f.ImageOnly != nil {
		conditions = append(conditions, "image_only = ?")
		args = append(args, *f.ImageOnly)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM volumes "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count volumes: %w", err)
	}

	query := "SELECT " + volumeColumns + " FROM volumes " + whereClause + " ORDER BY series_name, name"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list volumes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Volume
	for rows.Next() {
		v, err := scanVolume(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan volume: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate volumes: %w", err)
	}

	return results, total, nil
}

// ListVolumes returns volumes matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListVolumes(f VolumeFilter) ([]*Volume, int, error) { return listVolumes(s.db, f) }

// ListVolumes returns volumes matching the filter within a transaction.
func (t *Tx) ListVolumes(f VolumeFilter) ([]*Volume, int, error) { return listVolumes(t.tx, f) }

func listSeries(q querier) ([]*Series, error) {
	rows, err := q.Query(`
		SELECT series_id, MIN(series_name), COUNT(*), COALESCE(SUM(chars), 0), COALESCE(SUM(size_bytes), 0)
		FROM volumes GROUP BY series_id ORDER BY MIN(series_name)`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		sr := &Series{}
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.Volumes, &sr.TotalChars, &sr.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}

	return results, nil
}

// ListSeries returns one rollup row per series, ordered by name.
func (s *Store) ListSeries() ([]*Series, error) { return listSeries(s.db) }

// ListSeries returns series rollups within a transaction.
func (t *Tx) ListSeries() ([]*Series, error) { return listSeries(t.tx) }

func deleteVolume(q querier, id string) error {
	// Child rows go explicitly so removal does not depend on the
	// foreign_keys pragma being enabled on the connection.
	if _, err := q.Exec("DELETE FROM pages WHERE volume_id = ?", id); err != nil {
		return fmt.Errorf("delete pages %s: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM files WHERE volume_id = ?", id); err != nil {
		return fmt.Errorf("delete files %s: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM volumes WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete volume %s: %w", id, mapSQLiteError(err))
	}
	return nil
}
