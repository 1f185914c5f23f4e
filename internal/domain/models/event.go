package models

// Event is a snapshot of the currently announced game night. It lives in
// memory only and is reset by the next /open.
type Event struct {
	Date     string
	Time     string
	Location string
	Open     bool
}
