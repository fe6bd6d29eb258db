package person

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "person-web-service/internal/domain/person"
	apperrors "person-web-service/pkg/errors"
	"person-web-service/pkg/security"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for person persistence.
type Repository interface {
	Create(ctx context.Context, p *domain.Person) (int64, error) // Create a new person
	List(ctx context.Context) ([]domain.Person, error)           // List every person in id order
}

// Searcher defines the raw, parameterized first-name lookup.
type Searcher interface {
	FindByFirstName(ctx context.Context, firstName string) ([]domain.Person, error)
}

// PersonUsecase implements the business logic for person records.
type PersonUsecase struct {
	repo     Repository          // Repository for data access
	searcher Searcher            // Searcher for raw SQL lookups
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for form validation
}

// New creates a new PersonUsecase.
func New(r Repository, s Searcher, log *zap.Logger) *PersonUsecase {
	return &PersonUsecase{repo: r, searcher: s, log: log, validate: security.MustNewValidator()}
}

// formatValidationError converts validator.ValidationErrors into per-field form messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		switch e.Tag() {
		case "required":
			fields[e.Field()] = "This field is required."
		case "email":
			fields[e.Field()] = "Invalid email address."
		case security.TagAlphaSpace:
			fields[e.Field()] = "Only letters and spaces allowed."
		case "min", "max":
			if e.Field() == "email" {
				fields[e.Field()] = fmt.Sprintf("Field cannot be longer than %s characters.", e.Param())
			} else {
				fields[e.Field()] = "Field must be between 2 and 100 characters long."
			}
		default:
			fields[e.Field()] = "Invalid value."
		}
	}
	return apperrors.NewValidationError(fields)
}

// CreatePerson validates the trimmed form values, escapes them and stores one record.
func (uc *PersonUsecase) CreatePerson(ctx context.Context, in CreatePersonRequest) (*CreatePersonResponse, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	id, err := uc.repo.Create(ctx, &domain.Person{
		FirstName: security.Sanitize(in.FirstName),
		LastName:  security.Sanitize(in.LastName),
		Email:     security.Sanitize(in.Email),
	})
	if err != nil {
		uc.log.Error("failed to create person", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create person", err)
	}

	uc.log.Info("person created", zap.Int64("id", id))
	return &CreatePersonResponse{ID: id}, nil
}

// ListPeople returns every stored person.
func (uc *PersonUsecase) ListPeople(ctx context.Context) (*ListPeopleResponse, error) {
	domainPeople, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list people", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list people", err)
	}

	return &ListPeopleResponse{People: toDTOs(domainPeople)}, nil
}

// SearchPeople returns the people whose stored first name equals the given name.
func (uc *PersonUsecase) SearchPeople(ctx context.Context, in SearchPeopleRequest) (*SearchPeopleResponse, error) {
	uc.log.Debug("searching people", zap.String("first_name", in.FirstName))

	domainPeople, err := uc.searcher.FindByFirstName(ctx, in.FirstName)
	if err != nil {
		uc.log.Error("failed to search people", zap.String("first_name", in.FirstName), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to search people", err)
	}

	return &SearchPeopleResponse{People: toDTOs(domainPeople)}, nil
}

func toDTOs(people []domain.Person) []Person {
	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = Person{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
		}
	}
	return out
}
