package person

// Person represents a person record in the system.
type Person struct {
	ID        int64  // ID is the auto-incremented identifier assigned at insert
	FirstName string // FirstName is the escaped first name
	LastName  string // LastName is the escaped last name
	Email     string // Email is the escaped email address
}
