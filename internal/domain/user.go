package domain

// User is a Mixcloud account. Key is the username used in resource paths.
type User struct {
	Key  string `json:"username"`
	Name string `json:"name"`
}
