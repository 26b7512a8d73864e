package domain

// Identity is the verified caller of a request, taken from the bearer token
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
