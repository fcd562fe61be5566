package profiles

import (
	"time"

	"github.com/dmitrijs2005/truproof/internal/dbx"
)

var sqliteDialect = dialect{
	get: `SELECT owner_id, given_name, family_name, birth_date, email, phone, profession,
		 zip_code, city, country, fingerprint, code_image, updated_at
		 FROM profiles WHERE owner_id = ?`,
	upsert: `INSERT INTO profiles (owner_id, given_name, family_name, birth_date, email, phone,
		 profession, zip_code, city, country, fingerprint, code_image, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner_id) DO UPDATE SET
		 given_name = excluded.given_name, family_name = excluded.family_name,
		 birth_date = excluded.birth_date, email = excluded.email, phone = excluded.phone,
		 profession = excluded.profession, zip_code = excluded.zip_code, city = excluded.city,
		 country = excluded.country, fingerprint = excluded.fingerprint,
		 code_image = excluded.code_image, updated_at = excluded.updated_at`,

	timeArg:  func(t time.Time) any { return t.UnixMilli() },
	timeDest: func(t *time.Time) any { return dbx.UnixMilli{T: t} },
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteDialect}
}
