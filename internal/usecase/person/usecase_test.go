package person

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	domain "person-web-service/internal/domain/person"
	apperrors "person-web-service/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *domain.Person) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Person), args.Error(1)
}

// MockSearcher is a mock implementation of the Searcher interface
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) FindByFirstName(ctx context.Context, firstName string) ([]domain.Person, error) {
	args := m.Called(ctx, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Person), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*PersonUsecase, *MockRepository, *MockSearcher) {
	mockRepo := new(MockRepository)
	mockSearcher := new(MockSearcher)
	uc := New(mockRepo, mockSearcher, zaptest.NewLogger(t))
	return uc, mockRepo, mockSearcher
}

// ==================== CREATE PERSON TESTS ====================

func TestCreatePerson_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreatePersonRequest{
		FirstName: "  John ",
		LastName:  "Doe",
		Email:     " john@example.com ",
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Person) bool {
		return p.FirstName == "John" && p.LastName == "Doe" && p.Email == "john@example.com"
	})).Return(int64(1), nil)

	resp, err := uc.CreatePerson(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreatePerson_EscapesStoredValues(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreatePersonRequest{
		FirstName: "Mary Ann",
		LastName:  "Smith",
		Email:     "o'neil@example.com",
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Person) bool {
		return p.Email == "o&#39;neil@example.com"
	})).Return(int64(7), nil)

	resp, err := uc.CreatePerson(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreatePerson_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePersonRequest
		field   string
		message string
	}{
		{
			name:    "first name required",
			req:     CreatePersonRequest{FirstName: "", LastName: "Doe", Email: "john@example.com"},
			field:   "fname",
			message: "This field is required.",
		},
		{
			name:    "first name blank after trim",
			req:     CreatePersonRequest{FirstName: "   ", LastName: "Doe", Email: "john@example.com"},
			field:   "fname",
			message: "This field is required.",
		},
		{
			name:    "first name too short",
			req:     CreatePersonRequest{FirstName: "J", LastName: "Doe", Email: "john@example.com"},
			field:   "fname",
			message: "Field must be between 2 and 100 characters long.",
		},
		{
			name:    "last name too long",
			req:     CreatePersonRequest{FirstName: "John", LastName: strings.Repeat("a", 101), Email: "john@example.com"},
			field:   "lname",
			message: "Field must be between 2 and 100 characters long.",
		},
		{
			name:    "first name with digits",
			req:     CreatePersonRequest{FirstName: "John3", LastName: "Doe", Email: "john@example.com"},
			field:   "fname",
			message: "Only letters and spaces allowed.",
		},
		{
			name:    "last name with punctuation",
			req:     CreatePersonRequest{FirstName: "John", LastName: "Doe!", Email: "john@example.com"},
			field:   "lname",
			message: "Only letters and spaces allowed.",
		},
		{
			name:    "markup in name",
			req:     CreatePersonRequest{FirstName: "<script>", LastName: "Doe", Email: "john@example.com"},
			field:   "fname",
			message: "Only letters and spaces allowed.",
		},
		{
			name:    "invalid email",
			req:     CreatePersonRequest{FirstName: "John", LastName: "Doe", Email: "not-an-email"},
			field:   "email",
			message: "Invalid email address.",
		},
		{
			name:    "email too long",
			req:     CreatePersonRequest{FirstName: "John", LastName: "Doe", Email: "john@" + strings.Repeat(strings.Repeat("abcdefghij", 6)+".", 4) + "example.com"},
			field:   "email",
			message: "Field cannot be longer than 200 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo, _ := setupTestUsecase(t)

			resp, err := uc.CreatePerson(context.Background(), tt.req)

			assert.Nil(t, resp)
			ve, ok := apperrors.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.message, ve.Field(tt.field))
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePerson_MultipleFieldErrors(t *testing.T) {
	uc, _, _ := setupTestUsecase(t)

	_, err := uc.CreatePerson(context.Background(), CreatePersonRequest{FirstName: "J", LastName: "", Email: "bad"})

	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 3)
}

func TestCreatePerson_RepositoryError(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()
	dbErr := errors.New("database is locked")

	mockRepo.On("Create", ctx, mock.Anything).Return(int64(0), dbErr)

	resp, err := uc.CreatePerson(ctx, CreatePersonRequest{FirstName: "John", LastName: "Doe", Email: "john@example.com"})

	assert.Nil(t, resp)
	var ie *apperrors.InternalError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, dbErr)
	_, isValidation := apperrors.AsValidation(err)
	assert.False(t, isValidation)
}

// ==================== LIST PEOPLE TESTS ====================

func TestListPeople_Success(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.Person{
		{ID: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com"},
		{ID: 2, FirstName: "Jane", LastName: "Smith", Email: "jane@example.com"},
	}, nil)

	resp, err := uc.ListPeople(ctx)

	require.NoError(t, err)
	require.Len(t, resp.People, 2)
	assert.Equal(t, Person{ID: 2, FirstName: "Jane", LastName: "Smith", Email: "jane@example.com"}, resp.People[1])
}

func TestListPeople_Empty(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.Person{}, nil)

	resp, err := uc.ListPeople(ctx)

	require.NoError(t, err)
	assert.Empty(t, resp.People)
}

func TestListPeople_Error(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errors.New("no such table: first_app"))

	resp, err := uc.ListPeople(ctx)

	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to list people")
}

// ==================== SEARCH PEOPLE TESTS ====================

func TestSearchPeople_Success(t *testing.T) {
	uc, _, mockSearcher := setupTestUsecase(t)
	ctx := context.Background()

	mockSearcher.On("FindByFirstName", ctx, "John").Return([]domain.Person{
		{ID: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com"},
	}, nil)

	resp, err := uc.SearchPeople(ctx, SearchPeopleRequest{FirstName: "John"})

	require.NoError(t, err)
	require.Len(t, resp.People, 1)
	assert.Equal(t, "john@example.com", resp.People[0].Email)
	mockSearcher.AssertExpectations(t)
}

func TestSearchPeople_PassesInputVerbatim(t *testing.T) {
	uc, _, mockSearcher := setupTestUsecase(t)
	ctx := context.Background()
	injection := "x' OR '1'='1"

	mockSearcher.On("FindByFirstName", ctx, injection).Return([]domain.Person{}, nil)

	resp, err := uc.SearchPeople(ctx, SearchPeopleRequest{FirstName: injection})

	require.NoError(t, err)
	assert.Empty(t, resp.People)
	mockSearcher.AssertExpectations(t)
}

func TestSearchPeople_Error(t *testing.T) {
	uc, _, mockSearcher := setupTestUsecase(t)
	ctx := context.Background()

	mockSearcher.On("FindByFirstName", ctx, "John").Return(nil, errors.New("connection reset"))

	resp, err := uc.SearchPeople(ctx, SearchPeopleRequest{FirstName: "John"})

	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to search people")
}
