package book

// Actor is the identity a request is made with. The zero Actor is anonymous.
type Actor struct {
	UserID string
	Staff  bool
}

// Authenticated reports whether the actor is a known user.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// CanRead always allows: books are readable by everyone, including
// anonymous requesters.
func CanRead(Actor) error {
	return nil
}

// CanCreate allows any authenticated requester; the new book is owned by them.
func CanCreate(a Actor) error {
	if !a.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// CanModify allows updates and deletes by the book's owner or by staff.
func CanModify(a Actor, b Book) error {
	if !a.Authenticated() {
		return ErrNotAuthenticated
	}
	if a.Staff || a.UserID == b.OwnerID {
		return nil
	}
	return ErrForbidden
}
