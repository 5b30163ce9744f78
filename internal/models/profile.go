package models

// ProfileUpdate carries the profile fields a user may change about
// themselves. Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.Phone == nil && u.Email == nil
}
