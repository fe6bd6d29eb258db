package rawsql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"person-web-service/internal/domain/person"
)

// selectByFirstName is the named query prepared by NewPersonSearcher. The
// first name is always sent as a bound parameter.
const selectByFirstName = `SELECT * FROM first_app WHERE fname = :fname`

func init() {
	// The pure-Go sqlite driver registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DriverName maps a configured database driver to the name sqlx uses to
// pick its placeholder style.
func DriverName(driver string) string {
	switch driver {
	case "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	default:
		return "sqlite"
	}
}

// personRow is the scan target for first_app rows.
type personRow struct {
	Sno   int64  `db:"sno"`
	Fname string `db:"fname"`
	Lname string `db:"lname"`
	Email string `db:"email"`
}

// PersonSearcher runs the parameterized first-name lookup.
type PersonSearcher struct {
	stmt *sqlx.NamedStmt
	log  *zap.Logger
}

// NewPersonSearcher prepares the lookup statement. The first_app table must
// already exist.
func NewPersonSearcher(ctx context.Context, db *sqlx.DB, log *zap.Logger) (*PersonSearcher, error) {
	stmt, err := db.PrepareNamedContext(ctx, selectByFirstName)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare first name lookup: %w", err)
	}
	return &PersonSearcher{stmt: stmt, log: log}, nil
}

// FindByFirstName returns every person whose stored first name equals firstName.
func (s *PersonSearcher) FindByFirstName(ctx context.Context, firstName string) ([]person.Person, error) {
	var rows []personRow
	if err := s.stmt.SelectContext(ctx, &rows, map[string]any{"fname": firstName}); err != nil {
		s.log.Error("failed to search people by first name", zap.Error(err))
		return nil, fmt.Errorf("failed to search people: %w", err)
	}

	people := make([]person.Person, len(rows))
	for i, row := range rows {
		people[i] = person.Person{
			ID:        row.Sno,
			FirstName: row.Fname,
			LastName:  row.Lname,
			Email:     row.Email,
		}
	}

	s.log.Debug("first name lookup", zap.Int("matches", len(people)))
	return people, nil
}

// Close releases the prepared statement.
func (s *PersonSearcher) Close() error {
	return s.stmt.Close()
}
