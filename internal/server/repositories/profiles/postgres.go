package profiles

import (
	"time"

	"github.com/dmitrijs2005/truproof/internal/dbx"
)

var postgresDialect = dialect{
	get: `SELECT owner_id, given_name, family_name, birth_date, email, phone, profession,
		 zip_code, city, country, fingerprint, code_image, updated_at
		 FROM profiles WHERE owner_id = $1`,
	upsert: `INSERT INTO profiles (owner_id, given_name, family_name, birth_date, email, phone,
		 profession, zip_code, city, country, fingerprint, code_image, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (owner_id) DO UPDATE SET
		 given_name = EXCLUDED.given_name, family_name = EXCLUDED.family_name,
		 birth_date = EXCLUDED.birth_date, email = EXCLUDED.email, phone = EXCLUDED.phone,
		 profession = EXCLUDED.profession, zip_code = EXCLUDED.zip_code, city = EXCLUDED.city,
		 country = EXCLUDED.country, fingerprint = EXCLUDED.fingerprint,
		 code_image = EXCLUDED.code_image, updated_at = EXCLUDED.updated_at`,

	timeArg:  func(t time.Time) any { return t.UTC() },
	timeDest: func(t *time.Time) any { return t },
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresDialect}
}
