package gormdb

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"person-web-service/internal/domain/person"
)

// PersonRepo implements the person Repository using GORM.
type PersonRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewPersonRepo creates a new instance of PersonRepo.
func NewPersonRepo(db *gorm.DB, log *zap.Logger) *PersonRepo {
	return &PersonRepo{db: db, log: log}
}

// PersonSchema represents the database schema for the first_app table.
type PersonSchema struct {
	Sno   int64  `gorm:"column:sno;primaryKey;autoIncrement"`        // Unique identifier with auto-increment
	Fname string `gorm:"column:fname;type:varchar(100);not null"` // First name (required)
	Lname string `gorm:"column:lname;type:varchar(100);not null"` // Last name (required)
	Email string `gorm:"column:email;type:varchar(200);not null"` // Email address (required)
}

// TableName specifies the table name for the PersonSchema model.
func (PersonSchema) TableName() string {
	return "first_app"
}

// AutoMigrate creates or updates the first_app table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&PersonSchema{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", PersonSchema{}.TableName(), err)
	}
	return nil
}

// Create inserts a new person into the database.
func (r *PersonRepo) Create(ctx context.Context, p *person.Person) (int64, error) {
	if p == nil {
		return 0, errors.New("person cannot be nil")
	}

	model := PersonSchema{
		Fname: p.FirstName,
		Lname: p.LastName,
		Email: p.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create person in db", zap.Error(err))
		return 0, fmt.Errorf("failed to create person: %w", err)
	}

	r.log.Info("person created in db", zap.Int64("id", model.Sno))
	return model.Sno, nil
}

// List retrieves every person ordered by id.
func (r *PersonRepo) List(ctx context.Context) ([]person.Person, error) {
	var models []PersonSchema
	if err := r.db.WithContext(ctx).Order("sno ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list people from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	people := make([]person.Person, len(models))
	for i, model := range models {
		people[i] = person.Person{
			ID:        model.Sno,
			FirstName: model.Fname,
			LastName:  model.Lname,
			Email:     model.Email,
		}
	}

	return people, nil
}
