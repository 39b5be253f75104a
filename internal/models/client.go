package models

// Client represents a registered customer.
type Client struct {
	// ID is the unique identifier for the client (UUID format).
	ID string

	// Name is the client's display name. Required.
	Name string

	// Phone is the client's phone number as free text. Required; reminder
	// building normalizes it to digits when a WhatsApp link is needed.
	Phone string

	// Email is optional.
	Email string

	// Address is optional. Added in schema version 2.
	Address string
}
