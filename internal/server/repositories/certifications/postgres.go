package certifications

import (
	"time"

	"github.com/dmitrijs2005/truproof/internal/dbx"
)

var postgresDialect = dialect{
	insert: `INSERT INTO certifications (id, storage_ref, original_name, content_type, title,
		 description, nominal_date, code_image, visibility, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	getByID: `SELECT id, storage_ref, original_name, content_type, title, description,
		 nominal_date, code_image, visibility, created_at
		 FROM certifications WHERE id = $1`,
	delete: `DELETE FROM certifications WHERE id = $1`,
	list: `SELECT id, storage_ref, original_name, content_type, title, description,
		 nominal_date, visibility, created_at
		 FROM certifications ORDER BY created_at DESC, id`,
	listByVisi: `SELECT id, storage_ref, original_name, content_type, title, description,
		 nominal_date, visibility, created_at
		 FROM certifications WHERE visibility = $1 ORDER BY created_at DESC, id`,

	timeArg:  func(t time.Time) any { return t.UTC() },
	timeDest: func(t *time.Time) any { return t },
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresDialect}
}
