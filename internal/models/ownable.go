package models

// Ownable is implemented by every record reachable only through its owning
// profile. Queries scope on the profile id; Ownable backs the generic
// ownership checks in the services layer.
type Ownable interface {
	GetProfileID() uint
}
