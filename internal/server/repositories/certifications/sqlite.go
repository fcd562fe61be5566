package certifications

import (
	"time"

	"github.com/dmitrijs2005/truproof/internal/dbx"
)

var sqliteDialect = dialect{
	insert: `INSERT INTO certifications (id, storage_ref, original_name, content_type, title,
		 description, nominal_date, code_image, visibility, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	getByID: `SELECT id, storage_ref, original_name, content_type, title, description,
		 nominal_date, code_image, visibility, created_at
		 FROM certifications WHERE id = ?`,
	delete: `DELETE FROM certifications WHERE id = ?`,
	list: `SELECT id, storage_ref, original_name, content_type, title, description,
		 nominal_date, visibility, created_at
		 FROM certifications ORDER BY created_at DESC, id`,
	listByVisi: `SELECT id, storage_ref, original_name, content_type, title, description,
		 nominal_date, visibility, created_at
		 FROM certifications WHERE visibility = ? ORDER BY created_at DESC, id`,

	timeArg:  func(t time.Time) any { return t.UnixMilli() },
	timeDest: func(t *time.Time) any { return dbx.UnixMilli{T: t} },
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteDialect}
}
