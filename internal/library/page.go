package library

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Block payloads dominate the database size, so they are stored
// msgpack-encoded rather than as JSON text.

func addPage(q querier, p *Page) error {
	blocks, err := msgpack.Marshal(p.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	_, err = q.Exec(`
		INSERT INTO pages (volume_id, idx, img_path, img_width, img_height, chars, cum_chars, blocks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.VolumeID, p.Index, p.ImgPath, p.ImgWidth, p.ImgHeight, p.Chars, p.CumChars, blocks,
	)
	if err != nil {
		return fmt.Errorf("insert page: %w", mapSQLiteError(err))
	}
	return nil
}

// AddPage inserts one page record.
func (s *Store) AddPage(p *Page) error { return addPage(s.db, p) }

// AddPage inserts one page record within a transaction.
func (t *Tx) AddPage(p *Page) error { return addPage(t.tx, p) }

func listPages(q querier, volumeID string) ([]*Page, error) {
	rows, err := q.Query(`
		SELECT volume_id, idx, img_path, img_width, img_height, chars, cum_chars, blocks
		FROM pages WHERE volume_id = ? ORDER BY idx`, volumeID)
	if err != nil {
		return nil, fmt.Errorf("list pages %s: %w", volumeID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Page
	for rows.Next() {
		p := &Page{}
		var blocks []byte
		if err := rows.Scan(&p.VolumeID, &p.Index, &p.ImgPath, &p.ImgWidth, &p.ImgHeight, &p.Chars, &p.CumChars, &blocks); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		if len(blocks) > 0 {
			if err := msgpack.Unmarshal(blocks, &p.Blocks); err != nil {
				return nil, fmt.Errorf("decode blocks: %w", err)
			}
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}

	return results, nil
}

// ListPages returns a volume's pages in reading order.
func (s *Store) ListPages(volumeID string) ([]*Page, error) { return listPages(s.db, volumeID) }

// ListPages returns a volume's pages within a transaction.
func (t *Tx) ListPages(volumeID string) ([]*Page, error) { return listPages(t.tx, volumeID) }

func countPages(q querier, volumeID string) (int, error) {
	var n int
	if err := q.QueryRow("SELECT COUNT(*) FROM pages WHERE volume_id = ?", volumeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages %s: %w", volumeID, err)
	}
	return n, nil
}
