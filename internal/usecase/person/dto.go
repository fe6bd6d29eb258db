package person

// CreatePersonRequest represents the submitted person form.
// The form tags name the HTML inputs and key validation messages.
type CreatePersonRequest struct {
	FirstName string `form:"fname" validate:"required,min=2,max=100,alphaspace"`
	LastName  string `form:"lname" validate:"required,min=2,max=100,alphaspace"`
	Email     string `form:"email" validate:"required,email,max=200"`
}

// CreatePersonResponse represents the response payload after creating a person.
type CreatePersonResponse struct {
	ID int64
}

// ListPeopleResponse represents every stored person in id order.
type ListPeopleResponse struct {
	People []Person
}

// SearchPeopleRequest represents an exact first-name lookup.
type SearchPeopleRequest struct {
	FirstName string
}

// SearchPeopleResponse represents the matches of a first-name lookup.
type SearchPeopleResponse struct {
	People []Person
}

// Person represents a person DTO (Data Transfer Object) for responses.
type Person struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}
