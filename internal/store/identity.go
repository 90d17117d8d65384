package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Amogh-Hegde/speX/internal/identity"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Identity is one trained person as stored.
type Identity struct {
	ID        string
	Name      string
	Relation  string
	Samples   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImportRecord is the JSON shape accepted by Import: one person with one
// embedding per training image.
type ImportRecord struct {
	Name       string      `json:"name"`
	Relation   string      `json:"relation"`
	Embeddings [][]float64 `json:"embeddings"`
}

// IdentityRepository provides persistence for the identity gallery.
type IdentityRepository struct {
	db *sql.DB
}

// Identities returns the identity repository for this store.
func (s *Store) Identities() *IdentityRepository {
	return &IdentityRepository{db: s.db}
}

// Create inserts a new identity with its embeddings.
func (r *IdentityRepository) Create(name, relation string, embeddings [][]float64) (*Identity, error) {
	if name == "" {
		return nil, fmt.Errorf("identity name is empty")
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("identity %q has no embeddings", name)
	}

	now := time.Now()
	id := uuid.NewString()

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO identities (id, name, relation, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, name, relation, now, now,
	)
	if err != nil {
		return nil, err
	}

	for i, vec := range embeddings {
		encoded, err := json.Marshal(vec)
		if err != nil {
			return nil, fmt.Errorf("encode embedding %d for %q: %w", i, name, err)
		}
		_, err = tx.Exec(
			`INSERT INTO embeddings (identity_id, sample_index, vector) VALUES (?, ?, ?)`,
			id, i, string(encoded),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Identity{
		ID:        id,
		Name:      name,
		Relation:  relation,
		Samples:   len(embeddings),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Import inserts a batch of records, typically parsed from a training
// export. Returns how many identities were created.
func (r *IdentityRepository) Import(records []ImportRecord) (int, error) {
	created := 0
	for _, rec := range records {
		if _, err := r.Create(rec.Name, rec.Relation, rec.Embeddings); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// List retrieves all identities with their sample counts.
func (r *IdentityRepository) List() ([]*Identity, error) {
	rows, err := r.db.Query(
		`SELECT i.id, i.name, i.relation, COUNT(e.id), i.created_at, i.updated_at
		 FROM identities i
		 LEFT JOIN embeddings e ON e.identity_id = i.id
		 GROUP BY i.id
		 ORDER BY i.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Identity
	for rows.Next() {
		ident := &Identity{}
		if err := rows.Scan(&ident.ID, &ident.Name, &ident.Relation, &ident.Samples, &ident.CreatedAt, &ident.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ident)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteByName removes all identities with the given name.
func (r *IdentityRepository) DeleteByName(name string) error {
	result, err := r.db.Exec(`DELETE FROM identities WHERE name = ?`, name)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadGallery flattens the stored identities into gallery records, one per
// embedding, the shape the resolver matches against. A missing or empty
// table yields an empty slice, never an error.
func (r *IdentityRepository) LoadGallery() ([]identity.Known, error) {
	rows, err := r.db.Query(
		`SELECT i.id, i.name, i.relation, e.vector
		 FROM identities i
		 JOIN embeddings e ON e.identity_id = i.id
		 ORDER BY i.created_at, e.sample_index`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []identity.Known
	for rows.Next() {
		var k identity.Known
		var encoded string
		if err := rows.Scan(&k.ID, &k.Name, &k.Relation, &encoded); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(encoded), &k.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding for %q: %w", k.Name, err)
		}
		out = append(out, k)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
