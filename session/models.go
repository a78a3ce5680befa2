// Package session implements the identity/session store: account records
// in the mock CRUD store's users collection, and the single logged-in
// session held in durable local storage.
// This file defines the user entity.
package session

// User represents an account record as stored in the users collection.
// Identity is the server-assigned id. Email is a soft-unique key checked
// at registration time only (check-then-create; no transactional
// guarantee). Name is mutable and also lives as a denormalized snapshot on
// every review the user has written, which is why renames trigger a
// propagation pass over the reviews collection.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Password holds the bcrypt hash as persisted in the store. The json
	// tag matches the collection field; API responses use ProfileResponse,
	// which omits it.
	Password string `json:"password"`
}
