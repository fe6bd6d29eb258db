package person

import "context"

// Usecase defines the interface for person business logic operations.
type Usecase interface {
	CreatePerson(ctx context.Context, in CreatePersonRequest) (*CreatePersonResponse, error)
	ListPeople(ctx context.Context) (*ListPeopleResponse, error)
	SearchPeople(ctx context.Context, in SearchPeopleRequest) (*SearchPeopleResponse, error)
}
